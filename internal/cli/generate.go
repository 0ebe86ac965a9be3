package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/openbangla/repoindex/internal/fetcher"
	"github.com/openbangla/repoindex/internal/generator/apt"
	"github.com/openbangla/repoindex/internal/generator/rpm"
	"github.com/openbangla/repoindex/internal/models"
	"github.com/openbangla/repoindex/internal/selector"
	"github.com/openbangla/repoindex/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var (
		configPath string
		distName   string
		outputDir  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate index documents for one target distribution",
		Long: `Generate loads a TOML manifest of artifacts, downloads them,
selects the subset applicable to the requested distribution and writes
the generated index documents to the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, configPath, distName, outputDir)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the TOML manifest (required)")
	cmd.Flags().StringVarP(&distName, "dist", "d", "", "Requested distribution, e.g. ubuntu22.04 or fedora38 (required)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (overrides manifest)")

	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("dist")

	return cmd
}

func runGenerate(cmd *cobra.Command, configPath, distName, outputDir string) error {
	cfg, err := models.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if outputDir == "" {
		outputDir = "."
	}

	requested, ok := models.ParseDist(distName)
	if !ok {
		return fmt.Errorf("unrecognized distribution %q", distName)
	}

	pool := classifyEntries(cfg.Packages)
	if len(pool) == 0 {
		logrus.Warn("Manifest yielded no classifiable packages")
	}

	logrus.Infof("Downloading %d packages...", len(pool))
	f := fetcher.New(nil)
	if err := f.FetchAll(cmd.Context(), pool); err != nil {
		return fmt.Errorf("download batch failed: %w", err)
	}

	selected := selector.Select(pool, requested)
	logrus.Infof("Selected %d of %d packages for %s", len(selected), len(pool), requested)

	switch requested.Family {
	case models.FamilyUbuntu, models.FamilyDebian:
		return writeAptIndexes(cfg, outputDir, selected)
	case models.FamilyFedora:
		return writeRpmIndexes(outputDir, selected)
	default:
		return fmt.Errorf("no generator for %s", requested.Family)
	}
}

// classifyEntries classifies the manifest entries into packages.
// Entries with an unrecognized extension are dropped with a warning;
// they never abort the batch.
func classifyEntries(entries []models.PackageEntry) []*models.Package {
	var pool []*models.Package

	for _, entry := range entries {
		name := entry.URL[strings.LastIndexByte(entry.URL, '/')+1:]
		pkg, err := models.Classify(name, entry.Version, entry.URL, entry.Created)
		if err != nil {
			logrus.Warnf("Dropping %s: %v", name, err)
			continue
		}
		pool = append(pool, pkg)
	}

	return pool
}

func writeAptIndexes(cfg *models.Config, outputDir string, packages []*models.Package) error {
	gen := apt.NewGenerator(cfg.Origin, cfg.Label)

	index := gen.PackagesIndex(packages)
	indexGz, err := utils.GzipDeterministic(index)
	if err != nil {
		return fmt.Errorf("failed to compress Packages: %w", err)
	}

	release, err := gen.ReleaseIndex(packages)
	if err != nil {
		return fmt.Errorf("failed to generate Release: %w", err)
	}

	binaryDir := filepath.Join(outputDir, "main", fmt.Sprintf("binary-%s", models.ArchAmd64))
	if err := utils.WriteFile(filepath.Join(binaryDir, "Packages"), index, 0644); err != nil {
		return fmt.Errorf("failed to write Packages: %w", err)
	}
	if err := utils.WriteFile(filepath.Join(binaryDir, "Packages.gz"), indexGz, 0644); err != nil {
		return fmt.Errorf("failed to write Packages.gz: %w", err)
	}
	if err := utils.WriteFile(filepath.Join(outputDir, "Release"), release, 0644); err != nil {
		return fmt.Errorf("failed to write Release: %w", err)
	}

	logrus.Infof("APT index documents written to %s", outputDir)
	return nil
}

func writeRpmIndexes(outputDir string, packages []*models.Package) error {
	entries := rpm.FromPackages(packages)

	listings := []struct {
		name   string
		render func([]rpm.Package) ([]byte, error)
	}{
		{"primary", rpm.PrimaryIndex},
		{"filelists", rpm.FileListsIndex},
		{"other", rpm.OtherIndex},
	}

	repodataDir := filepath.Join(outputDir, "repodata")
	for _, listing := range listings {
		doc, err := listing.render(entries)
		if err != nil {
			return fmt.Errorf("failed to generate %s.xml: %w", listing.name, err)
		}

		compressed, err := utils.ZstdCompress(doc)
		if err != nil {
			return fmt.Errorf("failed to compress %s.xml: %w", listing.name, err)
		}

		if err := utils.WriteFile(filepath.Join(repodataDir, listing.name+".xml"), doc, 0644); err != nil {
			return fmt.Errorf("failed to write %s.xml: %w", listing.name, err)
		}
		if err := utils.WriteFile(filepath.Join(repodataDir, listing.name+".xml.zst"), compressed, 0644); err != nil {
			return fmt.Errorf("failed to write %s.xml.zst: %w", listing.name, err)
		}
	}

	repomdXML, err := rpm.RepoMDIndex(entries)
	if err != nil {
		return fmt.Errorf("failed to generate repomd.xml: %w", err)
	}
	if err := utils.WriteFile(filepath.Join(repodataDir, "repomd.xml"), repomdXML, 0644); err != nil {
		return fmt.Errorf("failed to write repomd.xml: %w", err)
	}

	logrus.Infof("RPM index documents written to %s", repodataDir)
	return nil
}
