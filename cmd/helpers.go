package cmd

import (
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leadscope/leadscope/internal/utils"
	"github.com/leadscope/leadscope/pkg/ai"
	"github.com/leadscope/leadscope/pkg/audit"
	"github.com/leadscope/leadscope/pkg/outreach"
	"github.com/leadscope/leadscope/pkg/pipeline"
	"github.com/leadscope/leadscope/pkg/storage"
	"github.com/leadscope/leadscope/pkg/webfetch"
)

func setupProxy(cmd *cobra.Command) {
	proxy, _ := cmd.Flags().GetString("proxy")
	if proxy == "" {
		return
	}
	if err := webfetch.SetupProxy(proxy); err != nil {
		utils.Log.Fatal("Invalid proxy URL: ", err)
	}
}

func openDB(cmd *cobra.Command) (*storage.DB, error) {
	dbPath, _ := cmd.Flags().GetString("dbpath")
	if dbPath == "" {
		dbPath = "leadscope.sqlite"
	}
	return storage.Open(dbPath)
}

func newAnalyzer() *audit.Analyzer {
	cacheDir := ""
	if home, err := homedir.Dir(); err == nil {
		cacheDir = filepath.Join(home, ".leadscope-cache")
	}
	ps := audit.NewPageSpeedClient(viper.GetString("pagespeed.api_key"), cacheDir)
	return audit.NewAnalyzer(ps)
}

// newGenerator returns nil when no AI key is configured; the pipeline then
// uses its template fallbacks.
func newGenerator() ai.Generator {
	apiKey := viper.GetString("ai.api_key")
	if apiKey == "" {
		utils.Log.Debug("No ai.api_key configured, outreach will use template fallbacks")
		return nil
	}
	gen, err := ai.NewGenerator(ai.Config{
		Provider: viper.GetString("ai.provider"),
		APIKey:   apiKey,
		Model:    viper.GetString("ai.model"),
		Endpoint: viper.GetString("ai.endpoint"),
	})
	if err != nil {
		utils.Log.Warnf("AI generator unavailable: %v", err)
		return nil
	}
	return gen
}

func newPipeline(db *storage.DB, concurrency int) *pipeline.Pipeline {
	return pipeline.New(pipeline.Config{
		DB:          db,
		Analyzer:    newAnalyzer(),
		Generator:   newGenerator(),
		SenderName:  viper.GetString("business.name"),
		Concurrency: concurrency,
		Log:         utils.Log,
	})
}

func newMailer(db *storage.DB) (*outreach.Mailer, error) {
	cfg := outreach.SMTPConfig{
		Host:      viper.GetString("smtp.host"),
		Port:      viper.GetInt("smtp.port"),
		Username:  viper.GetString("smtp.username"),
		Password:  viper.GetString("smtp.password"),
		FromEmail: viper.GetString("business.email"),
		FromName:  viper.GetString("business.name"),
	}
	delay := time.Duration(viper.GetInt("limits.email_delay_minutes")) * time.Minute
	return outreach.NewMailer(db, cfg, viper.GetInt("limits.max_daily_emails"), delay)
}

func scraperDelay() time.Duration {
	return time.Duration(viper.GetInt("limits.scraper_delay_seconds")) * time.Second
}
