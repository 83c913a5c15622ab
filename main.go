package main

import (
	"context"
	"imgfit/internal/adapters/decoder"
	"imgfit/internal/adapters/engine"
	"imgfit/internal/adapters/engine/ggengine"
	"imgfit/internal/adapters/engine/xdraw"
	"imgfit/internal/adapters/file"
	"imgfit/internal/core/domain"
	"imgfit/internal/core/service"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting imgfit...")

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("render.engine", "xdraw")
	viper.SetDefault("render.scaling", "fill")
	viper.SetDefault("render.filter", "good")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("log.level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	engines := &engine.Registry{}
	engines.Register("xdraw", xdraw.New())
	engines.Register("gg", ggengine.New())

	renderer, err := engines.Get(viper.GetString("render.engine"))
	if err != nil {
		log.Fatal().Err(err).Strs("available", engines.ListEngines()).Msg("failed initializing rendering engine")
	}

	scaling, err := domain.ParseScaling(viper.GetString("render.scaling"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid scaling in config")
	}

	filter, err := domain.ParseFilter(viper.GetString("render.filter"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid filter in config")
	}

	geometry := domain.Rectangle{
		Width:  viper.GetFloat64("render.width"),
		Height: viper.GetFloat64("render.height"),
	}
	if err := geometry.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid render size in config")
	}

	cache := service.NewResourceCache(decoder.New(), renderer, service.NewScaler(renderer))

	paths := append(viper.GetStringSlice("images.paths"), os.Args[1:]...)
	outputDir := viper.GetString("output.dir")

	for _, path := range paths {
		if ctx.Err() != nil {
			log.Info().Msg("interrupted, stopping")
			break
		}

		preload(ctx, cache, path, geometry, scaling, filter, outputDir)
	}

	log.Info().Int("cached", cache.Len()).Int("requested", len(paths)).Msg("done")
}

func preload(ctx context.Context, cache *service.ResourceCache, path string, geometry domain.Rectangle,
	scaling domain.Scaling, filter domain.Filter, outputDir string) {
	l := log.With().Str("path", path).Logger()

	img, err := cache.Load(ctx, path, geometry, scaling, filter)
	if err != nil {
		l.Error().Err(err).Msg("failed to load image")
		return
	}

	l.Info().
		Int("width", img.Width).
		Int("height", img.Height).
		Str("scaling", img.Scaling.String()).
		Str("filter", img.Filter.String()).
		Uint64("checksum", img.Checksum).
		Msg("image ready")

	if outputDir == "" {
		return
	}

	out, err := file.SavePNG(afero.NewOsFs(), outputDir, img)
	if err != nil {
		l.Error().Err(err).Msg("failed to export image")
		return
	}

	l.Info().Str("output", out).Msg("exported image")
}
