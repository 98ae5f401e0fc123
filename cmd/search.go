package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/AkhilKumar-Git/super-hire-ai/internal/ai/gemini"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/candidate"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/email"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/firecrawl"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/logger"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/search"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/secrets"
	"github.com/AkhilKumar-Git/super-hire-ai/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExit             = "Exit"
	PromptBack             = "back"
	PromptReportByCompany  = "Report by company"
	PromptCandidatesToFile = "Dump candidates to file"
	PromptDraftOutreach    = "Draft outreach email"
	PromptSaveToList       = "Save candidates to a list"

	candidatesDumpFile = "super-hire-candidates.json"
	defaultStoreDir    = "data"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByCompany, PromptCandidatesToFile, PromptDraftOutreach, PromptSaveToList, PromptExit},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the web for candidates matching a natural language query",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSearch(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Int("min-score", search.DefaultMinScore, "minimum match score for a candidate to be kept")
	searchCmd.Flags().Int("max-results", search.DefaultMaxResults, "maximum number of candidates to return")
	searchCmd.Flags().Int("limit", firecrawl.DefaultLimit, "maximum number of web documents to retrieve")
	searchCmd.Flags().Int("parallelism", 0, "concurrent profile extractions, 0 or 1 keeps extraction sequential")
	searchCmd.Flags().String("store-dir", defaultStoreDir, "directory for the candidate store")
	searchCmd.Flags().StringP("job-description", "D", "", "job description file used to score candidate skills")
	searchCmd.Flags().BoolP("auto-approve", "y", false, "print results and exit without the interactive prompt")

	viper.BindPFlag("search.min-score", searchCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("search.max-results", searchCmd.Flags().Lookup("max-results"))
	viper.BindPFlag("search.limit", searchCmd.Flags().Lookup("limit"))
	viper.BindPFlag("search.parallelism", searchCmd.Flags().Lookup("parallelism"))
	viper.BindPFlag("store.dir", searchCmd.Flags().Lookup("store-dir"))
}

// runSearch is the main command for the cli.
func runSearch(cmd *cobra.Command, query string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the super-hire search", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	completer, err := gemini.NewClient(ctx, apiKey,
		config.AI.Gemini.Model,
		config.AI.Gemini.MaxRetries,
		config.AI.Gemini.RequestsPerMinute,
		logger,
	)
	if err != nil {
		logger.Fatal("creating the gemini client", zap.Error(err))
	}

	// The firecrawl key is optional. Without it the retriever serves
	// built-in fixture documents, which keeps the pipeline usable offline.
	firecrawlKey, err := secrets.Load(secrets.Source{
		Name: "firecrawl api key",
		File: config.Firecrawl.APIKeyFile,
		Env:  "FIRECRAWL_API_KEY",
	})
	if err != nil {
		logger.Warn("firecrawl api key is not configured, serving fixture documents")
	}

	pipeline := search.NewPipeline(
		search.NewParser(completer, logger),
		firecrawl.New(firecrawlKey, config.Search.Limit, logger),
		search.NewExtractor(completer, logger),
		search.Config{
			MinScore:    float64(config.Search.MinScore),
			MaxResults:  config.Search.MaxResults,
			Parallelism: config.Search.Parallelism,
		},
		logger,
	)

	logger.Info("starting the search", zap.String("query", query))

	candidates, err := pipeline.Search(ctx, query)
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}

	if len(candidates) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates found"))
		return
	}

	storeDir := config.Store.Dir
	if storeDir == "" {
		storeDir = defaultStoreDir
	}
	candidateStore := store.New(storeDir, logger)

	persist(candidateStore, candidates, logger)

	generator := email.NewGenerator(completer, logger)

	jobDescription := readJobDescription(cmd, logger)
	if jobDescription != "" {
		scoreAgainstJobDescription(ctx, generator, candidates, jobDescription, logger)
	}

	printCandidates(candidates)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, candidates, candidateStore, generator, jobDescription, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, candidates []*candidate.Candidate, candidateStore *store.Store, generator *email.Generator, jobDescription string, logger *zap.Logger) error {
	switch action {
	case PromptReportByCompany:
		reportByCompany(candidates, logger)
		return nil
	case PromptCandidatesToFile:
		return dumpToFile(candidates, logger)
	case PromptDraftOutreach:
		return draftOutreach(ctx, candidates, candidateStore, generator, jobDescription, logger)
	case PromptSaveToList:
		return saveToList(candidates, candidateStore, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

// persist saves every admitted candidate, skipping duplicates by email.
func persist(candidateStore *store.Store, candidates []*candidate.Candidate, logger *zap.Logger) {
	saved, skipped := 0, 0
	for _, c := range candidates {
		record, created, err := candidateStore.SaveCandidate(c)
		if err != nil {
			if errors.Is(err, store.ErrNoEmail) {
				skipped++
				continue
			}
			logger.Warn("persisting candidate", zap.String("name", c.Name), zap.Error(err))
			continue
		}
		if created {
			saved++
		}
		c.ID = record.ID
	}

	logger.Info("candidates persisted",
		zap.Int("saved", saved),
		zap.Int("skipped without email", skipped),
	)
}

func readJobDescription(cmd *cobra.Command, logger *zap.Logger) string {
	path := cmd.Flag("job-description").Value.String()
	if path == "" {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading job description file", zap.Error(err))
		return ""
	}

	return string(data)
}

// scoreAgainstJobDescription computes a deterministic skill overlap score for
// every candidate against the skills the model finds in the job description.
func scoreAgainstJobDescription(ctx context.Context, generator *email.Generator, candidates []*candidate.Candidate, jobDescription string, logger *zap.Logger) {
	required := generator.SkillsFromJobDescription(ctx, jobDescription)
	if len(required) == 0 {
		logger.Warn("no skills found in the job description, skipping skill scoring")
		return
	}

	logger.Info("scoring candidates against the job description", zap.Strings("required skills", required))

	for _, c := range candidates {
		logger.Info("skill overlap",
			zap.String("candidate", c.Name),
			zap.Int("score", search.Score(c.Skills, required, nil)),
		)
	}
}

func printCandidates(candidates []*candidate.Candidate) {
	fmt.Printf("Found %d candidates:\n", len(candidates))
	for i, c := range candidates {
		fmt.Printf("%d. %s [%s at %s] score %.0f (%s)\n", i+1, c.Name, c.CurrentRole, c.Company, c.MatchScore, strings.Join(c.Skills, ", "))
	}
}

func reportByCompany(candidates []*candidate.Candidate, logger *zap.Logger) {
	counts := make(map[string]int)
	for _, c := range candidates {
		counts[c.Company]++
	}

	companies := make([]string, 0, len(counts))
	for company := range counts {
		companies = append(companies, company)
	}
	sort.Strings(companies)

	for _, company := range companies {
		logger.Info("company report", zap.String("company", company), zap.Int("candidates", counts[company]))
	}
}

func dumpToFile(candidates []*candidate.Candidate, logger *zap.Logger) error {
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling candidates: %w", err)
	}

	if err := os.WriteFile(candidatesDumpFile, data, 0o644); err != nil {
		return fmt.Errorf("writing candidates file: %w", err)
	}

	logger.Info("candidates dumped", zap.String("file", candidatesDumpFile), zap.Int("count", len(candidates)))
	return nil
}

// saveToList puts every persisted candidate from this search on a named
// list, creating the list when it does not exist yet.
func saveToList(candidates []*candidate.Candidate, candidateStore *store.Store, logger *zap.Logger) error {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		logger.Warn("no persisted candidates to add, candidates without email are not stored")
		return nil
	}

	name := promptui.Prompt{Label: "List name"}
	listName, err := name.Run()
	if err != nil {
		return err
	}
	if listName = strings.TrimSpace(listName); listName == "" {
		return nil
	}

	lists, err := candidateStore.Lists()
	if err != nil {
		return fmt.Errorf("reading lists: %w", err)
	}

	var target *store.List
	for i := range lists {
		if strings.EqualFold(lists[i].Name, listName) {
			target = &lists[i]
			break
		}
	}
	if target == nil {
		if target, err = candidateStore.CreateList(listName, ""); err != nil {
			return fmt.Errorf("creating list: %w", err)
		}
	}

	updated, err := candidateStore.AddToList(target.ID, ids)
	if err != nil {
		return fmt.Errorf("adding candidates to list: %w", err)
	}

	logger.Info("candidates added to list",
		zap.String("list", updated.Name),
		zap.Int("members", len(updated.CandidateIDs)),
	)

	return nil
}

// draftOutreach lets the user pick a candidate, drafts a personalized email
// for them and optionally records it in the outreach log.
func draftOutreach(ctx context.Context, candidates []*candidate.Candidate, candidateStore *store.Store, generator *email.Generator, jobDescription string, logger *zap.Logger) error {
	items := make([]string, 0, len(candidates)+1)
	items = append(items, PromptBack)
	for _, c := range candidates {
		items = append(items, fmt.Sprintf("%s [%s at %s]", c.Name, c.CurrentRole, c.Company))
	}

	pick := promptui.Select{
		Label: "Draft an email for",
		Items: items,
		Size:  len(items),
	}

	index, choice, err := pick.Run()
	if err != nil {
		return err
	}
	if choice == PromptBack {
		return nil
	}

	chosen := candidates[index-1]
	draft := generator.Draft(ctx, chosen, jobDescription)

	fmt.Printf("\n--- draft for %s ---\n%s\n---\n\n", chosen.Name, draft)

	confirm := promptui.Select{
		Label: "Mark as sent in the outreach log?",
		Items: []string{"Yes", "No"},
	}
	if _, answer, err := confirm.Run(); err != nil || answer != "Yes" {
		return err
	}

	if chosen.Email == "" {
		logger.Warn("candidate has no email, not logging", zap.String("candidate", chosen.Name))
		return nil
	}

	entry, err := candidateStore.LogEmail(store.EmailLogEntry{
		To:          chosen.Email,
		Subject:     fmt.Sprintf("Opportunity for a %s", chosen.CurrentRole),
		Content:     draft,
		Status:      store.EmailStatusSent,
		CandidateID: chosen.ID,
	})
	if err != nil {
		return fmt.Errorf("logging outreach email: %w", err)
	}

	logger.Info("outreach recorded",
		zap.String("to", entry.To),
		zap.String("log_id", entry.ID),
	)

	return nil
}
