package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/locvowork/hr_analytics_sample/internal/analytics"
	"github.com/locvowork/hr_analytics_sample/internal/bootstrap"
	"github.com/locvowork/hr_analytics_sample/internal/database"
	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/internal/export"
	"github.com/locvowork/hr_analytics_sample/internal/generator"
	"github.com/locvowork/hr_analytics_sample/internal/query"
)

func main() {
	action := flag.String("action", "seed", "Action to perform: seed, show, query, clear")
	preset := flag.String("preset", "medium", "Data preset: small, medium, large, xlarge")
	count := flag.Int("count", 0, "Number of employees (overrides preset)")
	queryID := flag.Int64("query", 0, "Saved query id for -action=query")
	fields := flag.String("fields", "department,level,salary", "Comma separated fields for an ad-hoc query")
	where := flag.String("where", "", "Ad-hoc condition as field|operator|value, e.g. salary|>|100000")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt for -action=clear")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("HR Analytics Seeder")
	fmt.Println(strings.Repeat("=", 50))

	app := bootstrap.NewApp()
	if err := app.InitializeCore(ctx); err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.Close()

	seeder := database.NewDataSeeder(app.DatasetRepo, generator.New())

	var err error
	switch *action {
	case "seed":
		err = performSeed(ctx, seeder, *preset, *count)
	case "show":
		err = performShow(ctx, app)
	case "query":
		err = performQuery(ctx, app, *queryID, *fields, *where)
	case "clear":
		err = performClear(ctx, seeder, *yes)
	default:
		fmt.Printf("Unknown action: %s\n", *action)
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", *action, err)
	}
	fmt.Println("\nDone!")
}

func performSeed(ctx context.Context, seeder *database.DataSeeder, preset string, count int) error {
	if count <= 0 {
		count = database.GetPresetCount(database.SeedPreset(preset))
		fmt.Printf("Using preset: %s (%d employees)\n", preset, count)
	} else {
		fmt.Printf("Using custom count: %d employees\n", count)
	}
	records, err := seeder.SeedData(ctx, count)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %d employees\n", len(records))
	return nil
}

func loadDataset(ctx context.Context, app *bootstrap.App) ([]domain.Employee, error) {
	records, found, err := app.DatasetRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no saved dataset: %w", domain.ErrNotFound)
	}
	return records, nil
}

func performShow(ctx context.Context, app *bootstrap.App) error {
	records, err := loadDataset(ctx, app)
	if err != nil {
		return err
	}
	fmt.Printf("Saved dataset: %d employees\n", len(records))
	for _, m := range analytics.Metrics() {
		result, err := analytics.Compute(m, records)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n", result.Title)
		table := export.Table(result.Rows, result.Keys)
		for _, row := range table.Rows {
			fmt.Printf("  %-24s %s\n", row[0], row[1])
		}
	}
	return nil
}

func performQuery(ctx context.Context, app *bootstrap.App, id int64, fieldList, where string) error {
	records, err := loadDataset(ctx, app)
	if err != nil {
		return err
	}

	var cfg domain.QueryConfig
	if id != 0 {
		if err := app.Queries.RestoreQueries(ctx, nil); err != nil {
			return err
		}
		if cfg, err = app.Queries.LoadQuery(id); err != nil {
			return err
		}
	} else {
		if cfg, err = parseAdHoc(fieldList, where); err != nil {
			return err
		}
	}

	rows := query.ExecuteConfig(records, cfg)
	if err := export.WriteCSV(os.Stdout, rows, cfg.SelectedFields); err != nil {
		return err
	}
	fmt.Printf("\n\n%d rows\n", len(rows))
	return nil
}

func parseAdHoc(fieldList, where string) (domain.QueryConfig, error) {
	var cfg domain.QueryConfig
	for _, name := range strings.Split(fieldList, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		f, err := domain.ParseFieldName(name)
		if err != nil {
			return cfg, err
		}
		cfg.SelectedFields = append(cfg.SelectedFields, f)
	}
	if where != "" {
		parts := strings.SplitN(where, "|", 3)
		if len(parts) < 2 {
			return cfg, errors.New("where must be field|operator|value")
		}
		f, err := domain.ParseFieldName(strings.TrimSpace(parts[0]))
		if err != nil {
			return cfg, err
		}
		op, err := domain.ParseOperator(parts[1])
		if err != nil {
			return cfg, err
		}
		c := domain.Condition{Field: f, Operator: op}
		if len(parts) == 3 {
			c.Value = parts[2]
		}
		cfg.Conditions = append(cfg.Conditions, c)
	}
	return cfg, cfg.Validate()
}

func performClear(ctx context.Context, seeder *database.DataSeeder, yes bool) error {
	if !yes {
		fmt.Println("This will delete the saved dataset!")
		fmt.Print("Continue? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}
	return seeder.ClearData(ctx)
}
