package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"resume-imager/resume/model"
	"resume-imager/resume/render"
	"resume-imager/resume/service"
)

func main() {
	flags := flag.NewFlagSet("renderdemo", flag.ExitOnError)
	outPath := flags.StringP("out", "o", "./out/sample_resume.png", "output path for the generated PNG")
	inputPath := flags.StringP("input", "i", "", "resume JSON to render (defaults to a built-in sample)")
	fontPath := flags.String("font", "arial.ttf", "TrueType font path or name")
	_ = flags.Parse(os.Args[1:])

	if err := run(*outPath, *inputPath, *fontPath); err != nil {
		fmt.Fprintf(os.Stderr, "renderdemo: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: wrote %s\n", *outPath)
}

func run(outPath, inputPath, fontPath string) error {
	raw := []byte(sampleResume)
	if inputPath != "" {
		b, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		raw = b
	}
	data, err := model.Decode(raw)
	if err != nil {
		return err
	}

	fonts, err := render.LoadFontSource(fontPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "font %s unavailable, using built-in face: %v\n", fontPath, err)
		fonts = nil
	}

	res, err := service.NewGenerator(fonts, nil).Generate(context.Background(), data)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if err := writeOutputs(outPath, data, res.PNG); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return validateRenderedPNG(outPath)
}

func writeOutputs(outPath string, data model.ResumeData, pngBytes []byte) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, pngBytes, 0o644); err != nil {
		return err
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "sample_resume.json"), payload, 0o644)
}

func validateRenderedPNG(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode output: %w", err)
	}
	size := img.Bounds().Size()
	if size.X != render.CanvasWidth || size.Y != render.CanvasHeight {
		return fmt.Errorf("unexpected output size %dx%d", size.X, size.Y)
	}
	return nil
}

const sampleResume = `{
  "name": "Jordan Lee",
  "email": "jordan.lee@example.com",
  "phone": "+1-555-0102",
  "summary": "Backend engineer with 8+ years building resilient APIs and data services.",
  "skills": "Go, PostgreSQL, Kubernetes, AWS",
  "experience": "Senior Backend Engineer, Northwind (2019-2024)\nBackend Engineer, Contoso (2015-2019)",
  "education": "BSc Computer Science, University of Texas"
}`
