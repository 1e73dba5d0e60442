package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/repository/specification"
	"edu-dashboard-be/internal/repository/unitofwork"
	"edu-dashboard-be/pkg/content"
	"edu-dashboard-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed modules and topics from the content catalog",
	RunE:  run,
}

func init() {
	rootCmd.Flags().String("catalog", "", "catalog YAML (default: embedded catalog)")
	rootCmd.Flags().String("subject", "", "only seed this subject")
	rootCmd.Flags().Bool("force", false, "seed subjects that already have modules")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}
	catalogPath, _ := cmd.Flags().GetString("catalog")
	only, _ := cmd.Flags().GetString("subject")
	force, _ := cmd.Flags().GetBool("force")

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is not set")
	}
	db, err := database.Open(dsn, database.Options{Environment: os.Getenv("GO_ENV")})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	catalog, err := content.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	subjects := catalog.Subjects()
	sort.Strings(subjects)
	for _, subject := range subjects {
		if only != "" && subject != only {
			continue
		}
		existing, err := uow.ModuleRepository().Count(ctx, specification.BySubject{Subject: subject})
		if err != nil {
			return fmt.Errorf("count %s modules: %w", subject, err)
		}
		if existing > 0 && !force {
			log.Printf("Subject '%s' already has %d modules, skipping...", subject, existing)
			continue
		}

		classes := make([]string, 0, len(catalog[subject]))
		for class := range catalog[subject] {
			classes = append(classes, class)
		}
		sort.Strings(classes)

		for _, class := range classes {
			block := catalog[subject][class]
			module := &entity.Module{
				Name:        block.Title,
				Description: fmt.Sprintf("%d topics", len(block.Topics)),
				Subject:     subject,
			}
			if err := uow.ModuleRepository().Create(ctx, module); err != nil {
				return fmt.Errorf("create module %q: %w", block.Title, err)
			}
			for _, name := range block.Topics {
				moduleId := module.Id
				topic := &entity.Topic{
					Name:      name,
					Subject:   subject,
					ModuleId:  &moduleId,
					KeyPoints: []string{},
				}
				if err := uow.TopicRepository().Create(ctx, topic); err != nil {
					return fmt.Errorf("create topic %q: %w", name, err)
				}
			}
			log.Printf("Created module: %s (%d topics)", block.Title, len(block.Topics))
		}
	}

	log.Println("Content seeding completed!")
	return nil
}
