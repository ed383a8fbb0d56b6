package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat retrieves a float configuration value.
	// Returns 0 if key doesn't exist or isn't a number.
	GetFloat(key string) float64

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// Configuration keys understood by the application.
const (
	// ConfigKeyDataDir overrides the default data directory.
	ConfigKeyDataDir = "data_dir"

	// ConfigKeyGeminiAPIKey holds the Gemini API key.
	ConfigKeyGeminiAPIKey = "gemini.api_key"

	// ConfigKeyGeminiModel selects the generation model.
	ConfigKeyGeminiModel = "gemini.model"

	// ConfigKeyGeminiEmbeddingModel selects the embedding model.
	ConfigKeyGeminiEmbeddingModel = "gemini.embedding_model"

	// ConfigKeyChunkSentences sets sentences per chunk.
	ConfigKeyChunkSentences = "chunker.sentences"

	// ConfigKeyChunkOverlap sets overlapping sentences between chunks.
	ConfigKeyChunkOverlap = "chunker.overlap"

	// ConfigKeyVectorWeight sets the vector weight for hybrid fusion.
	ConfigKeyVectorWeight = "search.vector_weight"

	// ConfigKeyKeywordWeight sets the keyword weight for hybrid fusion.
	ConfigKeyKeywordWeight = "search.keyword_weight"

	// ConfigKeyAnswerTopK sets the number of context chunks for ask.
	ConfigKeyAnswerTopK = "answer.top_k"
)
