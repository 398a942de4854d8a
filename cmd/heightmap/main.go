package main

import (
	"flag"
	"os"

	"island-sim/internal/config"
	"island-sim/internal/terrain"

	"github.com/charmbracelet/log"
)

func main() {
	configPath := flag.String("config", "", "world config (YAML); defaults when empty")
	pngPath := flag.String("png", "", "write a grayscale preview to this file")
	scale := flag.Int("scale", 8, "preview pixels per grid vertex")
	rawPath := flag.String("raw", "", "write the zstd-compressed float32 grid to this file")
	flag.Parse()

	if *pngPath == "" && *rawPath == "" {
		log.Fatal("nothing to do: pass -png and/or -raw")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", "path", *configPath, "err", err)
	}
	hf := terrain.Generate(cfg.TerrainParams())
	lo, hi := hf.MinMax()
	log.Info("terrain generated", "size", hf.Size(), "segments", hf.Segments(), "min", lo, "max", hi, "water", hf.WaterLevel())

	if *pngPath != "" {
		if err := writeFile(*pngPath, func(f *os.File) error { return writePNG(f, hf, *scale) }); err != nil {
			log.Fatal("write png", "path", *pngPath, "err", err)
		}
		log.Info("wrote preview", "path", *pngPath, "scale", *scale)
	}
	if *rawPath != "" {
		if err := writeFile(*rawPath, func(f *os.File) error { return writeRaw(f, hf) }); err != nil {
			log.Fatal("write raw", "path", *rawPath, "err", err)
		}
		log.Info("wrote raw grid", "path", *rawPath)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
