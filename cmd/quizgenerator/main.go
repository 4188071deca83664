package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"litquiz"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	apiKey     string
	serverURL  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "quizgenerator",
		Short:        "Generate and play literature quizzes for the CBSE Class 10 English books",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose debugging output")
	cmd.AddCommand(newChaptersCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newImportContentCmd())
	return cmd
}

func loadConfig() (litquiz.Config, error) {
	cfg, err := litquiz.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	litquiz.SetVerbose(verbose || cfg.Log.Verbose)
	return cfg, nil
}

// credentialFor returns the key from the flag or the provider's environment
// variable and checks its shape before anything is sent.
func credentialFor(provider litquiz.Provider) (string, error) {
	key := apiKey
	if key == "" {
		if provider == litquiz.ProviderOpenAI {
			key = os.Getenv("OPENAI_API_KEY")
		} else {
			key = os.Getenv("GEMINI_API_KEY")
		}
	}
	key = strings.TrimSpace(key)
	if err := litquiz.ValidateCredential(key, provider.CredentialPrefix()); err != nil {
		return "", err
	}
	return key, nil
}

// quizSource produces a quiz for a request, either locally or via a server
type quizSource func(ctx context.Context, req litquiz.QuizRequest) (*litquiz.Quiz, error)

// newQuizSource wires generation locally, or through a running server when
// --server is set. The returned close function is never nil.
func newQuizSource(cfg litquiz.Config) (quizSource, func() error, error) {
	if serverURL != "" {
		client := litquiz.NewClient(serverURL, cfg.Generation.Provider.CredentialPrefix(), &http.Client{
			Timeout: cfg.GenerationTimeout() + 30*time.Second,
		})
		return client.GenerateQuiz, func() error { return nil }, nil
	}

	refs, closeRefs, err := cfg.OpenReferenceStore()
	if err != nil {
		return nil, closeRefs, err
	}
	generator, err := cfg.NewGenerator(refs)
	if err != nil {
		closeRefs()
		return nil, func() error { return nil }, err
	}
	return generator.GenerateQuiz, closeRefs, nil
}

func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (or set GEMINI_API_KEY / OPENAI_API_KEY)")
	cmd.Flags().StringVar(&serverURL, "server", "", "Generate through a running webserver instead of calling the model directly")
}
