package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"recipe-recommender/internal/core/match"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	var (
		ingredients = flag.String("ingredients", "", "comma-separated ingredients to match")
		dietary     = flag.String("dietary", "", "comma-separated dietary tags (recipe must carry all)")
		difficulty  = flag.String("difficulty", "", "difficulty filter (Easy, Medium, Hard)")
		cuisine     = flag.String("cuisine", "", "cuisine filter")
		timeBucket  = flag.String("time", "", "cooking-time bucket (Quick, Moderate, Long)")
		topK        = flag.Int("top", 0, "max results (0 = configured default)")
		recipeID    = flag.Int("recipe", 0, "recipe id to rescale instead of matching")
		servings    = flag.Int("servings", 0, "target serving count for -recipe")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("starting recommender",
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("corpus", cfg.Corpus.Path),
	)

	corpus, err := recipe.LoadCorpus(cfg.Corpus.Path)
	if err != nil {
		common.LogFatal("failed to load corpus", zap.Error(err))
	}

	service := recommend.NewService(cfg)
	defer service.Close()

	if err := service.Rebuild(corpus); err != nil {
		common.LogFatal("failed to build index", zap.Error(err))
	}

	switch {
	case *recipeID > 0:
		runScale(service, *recipeID, *servings)
	case *ingredients != "":
		filters := match.Filters{
			DietaryTags: splitList(*dietary),
			Difficulty:  *difficulty,
			Cuisine:     *cuisine,
			TimeBucket:  *timeBucket,
		}
		runMatch(service, splitList(*ingredients), filters, *topK)
	default:
		fmt.Println("Nothing to do: pass -ingredients or -recipe. See -help.")
		os.Exit(2)
	}
}

func runMatch(service *recommend.Service, tokens []string, filters match.Filters, topK int) {
	results, err := service.Match(tokens, filters, topK)
	if err != nil {
		common.LogError("match failed", zap.Error(err))
		os.Exit(1)
	}

	if len(results) == 0 {
		fmt.Println("No matching recipes.")
		return
	}
	for _, res := range results {
		fmt.Printf("%2d. [%.3f] %s (id=%d, matched: %s)\n",
			res.Rank, res.Score, res.Recipe.Title, res.Recipe.ID,
			strings.Join(res.MatchedIngredients, ", "))
	}
}

func runScale(service *recommend.Service, recipeID, servings int) {
	adj, err := service.Scale(recipeID, servings)
	if err != nil {
		common.LogError("scaling failed", zap.Error(err))
		os.Exit(1)
	}

	out, err := common.MarshalJSON(adj)
	if err != nil {
		common.LogError("failed to encode adjustment", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
