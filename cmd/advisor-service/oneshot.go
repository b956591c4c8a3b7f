package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"
	"golang-stock-advisor/pkg/utils"

	"github.com/lib/pq"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDigestCmd() *cobra.Command {
	var (
		date   string
		force  bool
		notify bool
	)
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Generates the digest for a date and prints it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			day := a.digestService.Today()
			if date != "" {
				if day, err = utils.ParseDate(date); err != nil {
					return err
				}
			}

			result, err := a.digestService.GenerateDigest(ctx, day, force)
			if err != nil {
				return err
			}
			if notify && result.Created {
				status, err := a.verificationService.GetStatus(ctx)
				if err != nil {
					return err
				}
				if err := telegram.SendAll(a.notify, telegram.FormatDigest(result.Digest, status.Mode)); err != nil {
					a.log.Error("Failed to send digest notification", logger.ErrorField(err))
				}
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Digest date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&force, "force", false, "Regenerate even if a digest already exists")
	cmd.Flags().BoolVar(&notify, "notify", false, "Send the digest to Telegram")
	return cmd
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verifies due predictions and recalculates accuracy stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.Close()

		run, err := a.verificationService.RunVerification(ctx)
		if err != nil {
			return err
		}
		status, err := a.verificationService.GetStatus(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"run": run, "status": status})
	},
}

type seedFile struct {
	Stocks []struct {
		Ticker   string   `yaml:"ticker"`
		Name     string   `yaml:"name"`
		Sector   string   `yaml:"sector"`
		Tags     []string `yaml:"tags"`
		Inactive bool     `yaml:"inactive"`
	} `yaml:"stocks"`
}

func loadSeedFile(path string) ([]entity.Stock, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	stocks := make([]entity.Stock, 0, len(f.Stocks))
	seen := make(map[string]bool)
	for _, s := range f.Stocks {
		ticker := strings.ToUpper(strings.TrimSpace(s.Ticker))
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		stocks = append(stocks, entity.Stock{
			Ticker:   ticker,
			Name:     s.Name,
			Sector:   s.Sector,
			Tags:     pq.StringArray(s.Tags),
			IsActive: !s.Inactive,
		})
	}
	return stocks, nil
}

func newSeedStocksCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-stocks",
		Short: "Upserts the stock universe from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			stocks, err := loadSeedFile(file)
			if err != nil {
				return err
			}

			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := a.stocksRepo.Upsert(ctx, stocks); err != nil {
				return err
			}
			a.log.Info("Stock universe seeded", logger.IntField("count", len(stocks)), logger.StringField("file", file))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "data/stocks.yaml", "Path to the stock universe file")
	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
