// Package cli implements the command-line interface for Ragdex.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	geminiapi "github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/gemini"

	configfile "github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/config/file"
	geminiembed "github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/embedding/gemini"
	"github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/embedding/local"
	indexmem "github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/index/memory"
	geminillm "github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/llm/gemini"
	"github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/storage/sqlite"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
	"github.com/ragdex-labs/ragdex-cli/internal/core/services"
	"github.com/ragdex-labs/ragdex-cli/internal/logger"
	"github.com/ragdex-labs/ragdex-cli/internal/normalisers"
	"github.com/ragdex-labs/ragdex-cli/internal/normalisers/jsondoc"
	"github.com/ragdex-labs/ragdex-cli/internal/normalisers/markdown"
	"github.com/ragdex-labs/ragdex-cli/internal/normalisers/plaintext"
	"github.com/ragdex-labs/ragdex-cli/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose enables debug logging.
var verbose bool

// Services wired by initServices. Tests may replace these directly.
var (
	configStore     driven.ConfigStore
	promptStore     driven.PromptStore
	store           *sqlite.Store
	ingestService   driving.IngestService
	searchService   driving.SearchService
	answerService   driving.AnswerService
	documentService driving.DocumentService
	libraryService  driving.LibraryService
)

var rootCmd = &cobra.Command{
	Use:   "ragdex",
	Short: "Local document search and question answering",
	Long: `Ragdex ingests local documents into a searchable library.
Documents are chunked, embedded and indexed for hybrid search
(keyword BM25 + semantic vectors), and questions can be answered
with retrieval-augmented generation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// Version and help never need the full service graph
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			store.Close() //nolint:errcheck
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// configDir returns the Ragdex configuration directory (~/.ragdex).
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ragdex"), nil
}

// initServices builds the full service graph from configuration.
// Safe to call more than once; services already set (e.g. by tests)
// are left alone.
func initServices() error {
	if searchService != nil {
		return nil
	}

	dir, err := configDir()
	if err != nil {
		return err
	}

	cfgStore, err := configfile.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	configStore = cfgStore

	prompts, err := configfile.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		logger.Warn("Prompt store unavailable: %v", err)
	} else {
		promptStore = prompts
	}

	dataDir := configStore.GetString(driven.ConfigKeyDataDir)
	if dataDir == "" {
		dataDir = filepath.Join(dir, "data")
	}

	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	docStore := store.DocumentStore()

	vectorIndex := indexmem.NewVectorIndex()
	keywordIndex := indexmem.NewKeywordIndex()

	embedder, llm := buildGeminiServices()

	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(jsondoc.New())

	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)
	chunkerProc, err := processors.Build("chunker", chunkerConfig())
	if err != nil {
		return fmt.Errorf("build chunker: %w", err)
	}
	pipeline := postprocessors.NewPipeline(chunkerProc)

	// The indexes live in memory, so every process start replays the
	// stored chunks into them.
	if err := rebuildIndexes(context.Background(), docStore, vectorIndex, keywordIndex); err != nil {
		return fmt.Errorf("rebuild indexes: %w", err)
	}

	ingestService = services.NewIngestService(
		registry, pipeline, docStore, vectorIndex, keywordIndex, embedder)
	searchService = services.NewSearchService(
		docStore, keywordIndex, vectorIndex, embedder, fusionOptions()...)

	answerSvc := services.NewAnswerService(searchService, llm)
	if promptStore != nil {
		answerSvc.SetPromptStore(promptStore)
	}
	answerService = answerSvc

	documentService = services.NewDocumentService(docStore, vectorIndex, keywordIndex)
	libraryService = services.NewLibraryService(docStore, vectorIndex, keywordIndex)

	return nil
}

// buildGeminiServices creates the embedding and LLM services.
// Without an API key both fall back: embeddings to the deterministic
// local embedder, the LLM to nil (ask degrades with a clear error).
func buildGeminiServices() (driven.EmbeddingService, driven.LLMService) {
	apiKey := configStore.GetString(driven.ConfigKeyGeminiAPIKey)
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		logger.Debug("No Gemini API key, using local embedder")
		return local.NewEmbedder(), nil
	}

	embedder, err := geminiembed.NewEmbeddingService(geminiembed.Config{
		APIKey:      apiKey,
		Model:       configStore.GetString(driven.ConfigKeyGeminiEmbeddingModel),
		Timeout:     30 * time.Second,
		RateLimiter: geminiapi.NewRateLimiter(geminiapi.EndpointEmbed),
	})
	if err != nil {
		logger.Warn("Gemini embedding unavailable (%v), using local embedder", err)
		return local.NewEmbedder(), nil
	}

	llm, err := geminillm.NewLLMService(geminillm.LLMConfig{
		APIKey:      apiKey,
		Model:       configStore.GetString(driven.ConfigKeyGeminiModel),
		RateLimiter: geminiapi.NewRateLimiter(geminiapi.EndpointGenerate),
	})
	if err != nil {
		logger.Warn("Gemini LLM unavailable: %v", err)
		return embedder, nil
	}
	if promptStore != nil {
		llm.SetPromptStore(promptStore)
	}

	return embedder, llm
}

// chunkerConfig reads chunking parameters from configuration into the
// generic form the processor registry builders accept.
func chunkerConfig() map[string]any {
	cfg := make(map[string]any)
	if n := configStore.GetInt(driven.ConfigKeyChunkSentences); n > 0 {
		cfg["sentences"] = n
	}
	if overlap := configStore.GetInt(driven.ConfigKeyChunkOverlap); overlap > 0 {
		cfg["overlap"] = overlap
	}
	return cfg
}

// fusionOptions reads hybrid fusion weights from configuration.
func fusionOptions() []services.SearchOption {
	vw := configStore.GetFloat(driven.ConfigKeyVectorWeight)
	kw := configStore.GetFloat(driven.ConfigKeyKeywordWeight)
	if vw > 0 || kw > 0 {
		return []services.SearchOption{services.WithFusionWeights(vw, kw)}
	}
	return nil
}

// rebuildIndexes replays stored chunks into the in-memory indexes.
func rebuildIndexes(
	ctx context.Context,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	keywordIndex driven.KeywordIndex,
) error {
	docs, err := docStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	total := 0
	for _, doc := range docs {
		chunks, err := docStore.GetChunks(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("get chunks for %s: %w", doc.ID, err)
		}
		for _, chunk := range chunks {
			if len(chunk.Embedding) > 0 {
				if err := vectorIndex.Add(ctx, chunk.ID, chunk.Embedding); err != nil {
					return fmt.Errorf("index vector %s: %w", chunk.ID, err)
				}
			}
			if err := keywordIndex.Index(ctx, chunk); err != nil {
				return fmt.Errorf("index chunk %s: %w", chunk.ID, err)
			}
		}
		total += len(chunks)
	}

	if total > 0 {
		logger.Debug("Rebuilt indexes: %d documents, %d chunks", len(docs), total)
	}
	return nil
}
