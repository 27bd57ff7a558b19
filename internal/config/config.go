package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/kozaktomas/page-composer/internal/constants"
	"github.com/kozaktomas/page-composer/internal/page"
	"gopkg.in/yaml.v3"
)

//go:embed papers.yaml
var papersYAML []byte

type Config struct {
	Page   PageConfig
	Export ExportConfig
	Web    WebConfig
	Papers PapersConfig
}

type PageConfig struct {
	Paper       string // paper name from papers.yaml (default A4)
	Orientation string // "portrait" or "landscape"
	DPI         int    // page resolution used for page units (default 300)
	MarginUnits int    // border inset in page units (default 20)
}

type ExportConfig struct {
	OutputDir string // target folder for exported documents
	FitToPage bool   // constrained mode: compose every image onto the page inside the margins
	Verify    bool   // validate every written document with pdfcpu
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // extra CORS origins besides loopback
}

type PapersConfig struct {
	Sizes map[string]PaperSize `yaml:"sizes"`
}

type PaperSize struct {
	WidthMM  float64 `yaml:"width_mm"`
	HeightMM float64 `yaml:"height_mm"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envBool reads an environment variable and parses it as a boolean.
// Returns the default value if the env var is unset or invalid.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

// envString returns the env var value or the default when it is empty.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList reads a comma-separated environment variable, dropping empty entries.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// DefaultOutputDir returns the user's desktop folder.
// On Linux the German "Schreibtisch" folder is preferred when it exists.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			home = profile
		}
		return filepath.Join(home, "Desktop")
	}
	path := filepath.Join(home, "Schreibtisch")
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Join(home, "Desktop")
}

func Load() *Config {
	var papers PapersConfig
	if err := yaml.Unmarshal(papersYAML, &papers); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded papers.yaml: " + err.Error())
	}

	return &Config{
		Page: PageConfig{
			Paper:       envString("PAGE_PAPER", "A4"),
			Orientation: envString("PAGE_ORIENTATION", page.Portrait.String()),
			DPI:         envInt("PAGE_DPI", constants.DefaultDPI),
			// PAGE_MARGIN=0 is valid, so it is parsed separately from envInt.
			MarginUnits: envMargin("PAGE_MARGIN", constants.DefaultMarginUnits),
		},
		Export: ExportConfig{
			OutputDir: envString("OUTPUT_DIR", DefaultOutputDir()),
			FitToPage: envBool("EXPORT_FIT_TO_PAGE", true),
			Verify:    envBool("EXPORT_VERIFY", false),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "127.0.0.1"),
			Port:           envInt("WEB_PORT", 8080),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Papers: papers,
	}
}

func envMargin(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

// Paper returns the configured paper, falling back to A4 for unknown names.
func (c *Config) Paper() page.Paper {
	for name, size := range c.Papers.Sizes {
		if strings.EqualFold(name, c.Page.Paper) {
			return page.Paper{Name: name, WidthMM: size.WidthMM, HeightMM: size.HeightMM}
		}
	}
	return page.A4
}

// Orientation parses the configured orientation.
func (c *Config) Orientation() (page.Orientation, error) {
	return page.ParseOrientation(c.Page.Orientation)
}

// NewGeometry builds the page geometry described by the configuration.
func (c *Config) NewGeometry() (*page.Geometry, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	o, _ := c.Orientation()
	return page.NewGeometry(c.Paper(), o, c.Page.DPI, c.Page.MarginUnits), nil
}

// Validate checks the page settings for values that cannot produce a usable page.
func (c *Config) Validate() error {
	if c.Page.DPI <= 0 {
		return fmt.Errorf("invalid DPI %d: must be positive", c.Page.DPI)
	}
	if c.Page.MarginUnits < 0 {
		return fmt.Errorf("invalid margin %d: must not be negative", c.Page.MarginUnits)
	}
	if _, err := c.Orientation(); err != nil {
		return err
	}
	paper := c.Paper()
	shortSide := min(page.MMToUnits(paper.WidthMM, c.Page.DPI), page.MMToUnits(paper.HeightMM, c.Page.DPI))
	if 2*c.Page.MarginUnits >= shortSide {
		return errors.New("margin leaves no content area on the page")
	}
	return nil
}
