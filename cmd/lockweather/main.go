package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image/color"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	"github.com/lox/lockweather/internal/aqi"
	"github.com/lox/lockweather/internal/store"
	"github.com/lox/lockweather/internal/weather"
	"github.com/lox/lockweather/internal/widget"
)

type CLI struct {
	DB             string `help:"Path to SQLite database." default:"data/lockweather.db" env:"LOCKWEATHER_DB"`
	StrictForecast bool   `help:"Reject snapshots with any unparseable forecast token." env:"LOCKWEATHER_STRICT_FORECAST"`
	TextColor      string `help:"Default widget text color (#rrggbb)." default:"#ffffff" env:"LOCKWEATHER_TEXT_COLOR"`

	Decode       DecodeCmd       `cmd:"" help:"Decode a serialized snapshot and print it."`
	AQI          AQICmd          `cmd:"" name:"aqi" help:"Parse a provider AQI line."`
	Restore      RestoreCmd      `cmd:"" help:"Decode a serialized snapshot and cache it."`
	Show         ShowCmd         `cmd:"" help:"Print the cached snapshot for a location."`
	Annotate     AnnotateCmd     `cmd:"" help:"Attach a provider AQI line to a cached snapshot."`
	List         ListCmd         `cmd:"" help:"List cached snapshots."`
	ServeMetrics ServeMetricsCmd `cmd:"" help:"Serve Prometheus metrics."`
}

func (c *CLI) parser() weather.Parser {
	return weather.Parser{StrictForecast: c.StrictForecast}
}

func (c *CLI) openCache() (*widget.Cache, func(), error) {
	if dir := filepath.Dir(c.DB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", c.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return widget.NewCache(st, c.parser()), func() { db.Close() }, nil
}

func (c *CLI) textColor() (color.Color, error) {
	return aqi.ParseHex(c.TextColor)
}

type DecodeCmd struct {
	V2   bool   `help:"Decode the v2 single-day schema."`
	Blob string `arg:"" help:"Serialized snapshot."`
}

func (d *DecodeCmd) Run(cli *CLI) error {
	p := cli.parser()
	if d.V2 {
		info, err := p.ParseInfoV2(d.Blob)
		if err != nil {
			return err
		}
		return printSnapshot(cli, info.String(), info.AQI())
	}
	info, err := p.ParseInfo(d.Blob)
	if err != nil {
		return err
	}
	return printSnapshot(cli, info.String(), info.AQI())
}

type AQICmd struct {
	Line string `arg:"" help:"Provider AQI line, e.g. '11-27-2013 09:00; PM2.5; 99.0; 173; Unhealthy (...)'."`
}

func (a *AQICmd) Run(cli *CLI) error {
	compact, ok := aqi.ParseText(a.Line)
	if !ok {
		return fmt.Errorf("%w: %q", widget.ErrInvalidAQI, a.Line)
	}
	fmt.Println(compact)
	return printAQIColors(cli, compact)
}

type RestoreCmd struct {
	V2   bool   `help:"Blob uses the v2 single-day schema."`
	Blob string `arg:"" help:"Serialized snapshot."`
}

func (r *RestoreCmd) Run(cli *CLI) error {
	cache, closeDB, err := cli.openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	if r.V2 {
		info, err := cache.RestoreV2(r.Blob)
		if err != nil {
			return err
		}
		log.Printf("cached v2 snapshot %s (%s)", info.ID, info.City)
		return nil
	}
	info, err := cache.Restore(r.Blob)
	if err != nil {
		return err
	}
	log.Printf("cached snapshot %s (%s), %d forecast days", info.ID, info.City, len(info.Forecasts))
	return nil
}

type ShowCmd struct {
	V2 bool   `help:"Show the v2 snapshot."`
	ID string `arg:"" help:"Location id."`
}

func (s *ShowCmd) Run(cli *CLI) error {
	cache, closeDB, err := cli.openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	if s.V2 {
		info, err := cache.CurrentV2(s.ID)
		if err != nil {
			return err
		}
		if info == nil {
			return fmt.Errorf("%w: %s", widget.ErrNoSnapshot, s.ID)
		}
		return printSnapshot(cli, info.String(), info.AQI())
	}
	info, err := cache.Current(s.ID)
	if err != nil {
		return err
	}
	if info == nil {
		return fmt.Errorf("%w: %s", widget.ErrNoSnapshot, s.ID)
	}
	return printSnapshot(cli, info.String(), info.AQI())
}

type AnnotateCmd struct {
	ID   string `arg:"" help:"Location id."`
	Line string `arg:"" help:"Provider AQI line."`
}

func (a *AnnotateCmd) Run(cli *CLI) error {
	cache, closeDB, err := cli.openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	info, err := cache.AnnotateAQI(a.ID, a.Line)
	if err != nil {
		return err
	}
	return printSnapshot(cli, info.String(), info.AQI())
}

type ListCmd struct{}

func (l *ListCmd) Run(cli *CLI) error {
	cache, closeDB, err := cli.openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	recs, err := cache.Snapshots()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Printf("%s\t%s\t%s\n", rec.ID, rec.Schema, rec.UpdatedAt.Local().Format(time.RFC3339))
	}
	return nil
}

type ServeMetricsCmd struct {
	Addr string `help:"Listen address." default:":9090" env:"LOCKWEATHER_METRICS_ADDR"`
}

func (s *ServeMetricsCmd) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: s.Addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving metrics on %s", s.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func printSnapshot(cli *CLI, summary, aqiInfo string) error {
	fmt.Println(summary)
	if aqiInfo == "" {
		return nil
	}
	return printAQIColors(cli, aqiInfo)
}

func printAQIColors(cli *CLI, compact string) error {
	def, err := cli.textColor()
	if err != nil {
		return err
	}
	colors := aqi.ResolveColors(compact, def)
	fmt.Printf("level %s, text %s, background %s\n", colors.Level, aqi.Hex(colors.Text), aqi.Hex(colors.Background))
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("INFO: could not load .env: %v", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("lockweather"),
		kong.Description("Weather snapshot codec and cache for the lock screen widget."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
