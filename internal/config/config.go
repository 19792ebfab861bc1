// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"strings"

	"github.com/aria-lang/contigflow/internal/assembly"
	"github.com/aria-lang/contigflow/internal/contig"
	"github.com/aria-lang/contigflow/internal/quality"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding settings, e.g.
// CONTIGFLOW_ASSEMBLY_KMER_SIZE.
const EnvPrefix = "CONTIGFLOW"

// TypeConfig holds the placement settings for one sequencing type
type TypeConfig struct {
	// minimum overlap in bases between a read and the contig
	MinOverlap int `mapstructure:"min-overlap"`

	// half-width of the alignment band on the first attempt
	BandWidth int `mapstructure:"band-width"`

	// refuse alignments starting or ending on a mismatch
	CleanEnds bool `mapstructure:"clean-ends"`

	// relative score limits, in percent
	MinRelScore             int `mapstructure:"min-rel-score"`
	MinRelScoreWithMate     int `mapstructure:"min-rel-score-with-mate"`
	MaxRelScoreDrop         int `mapstructure:"max-rel-score-drop"`
	MaxRelScoreDropWithMate int `mapstructure:"max-rel-score-drop-with-mate"`

	// the maximum column coverage, 0 is unlimited
	MaxCoverage int `mapstructure:"max-coverage"`

	// extra limits for short reads
	ShortReadRules         bool `mapstructure:"short-read-rules"`
	ShortReadMaxMismatches int  `mapstructure:"short-read-max-mismatches"`
	ShortReadMaxGaps       int  `mapstructure:"short-read-max-gaps"`
	ShortReadMinEndMatch   int  `mapstructure:"short-read-min-end-match"`

	// fold short reads mapped onto rails into the column counters
	Merge              bool `mapstructure:"merge"`
	MergeMaxMismatches int  `mapstructure:"merge-max-mismatches"`
	MergeMaxGaps       int  `mapstructure:"merge-max-gaps"`
}

// TypesConfig has one TypeConfig per sequencing type
type TypesConfig struct {
	Sanger       TypeConfig `mapstructure:"sanger"`
	FourFiveFour TypeConfig `mapstructure:"454"`
	IonTorrent   TypeConfig `mapstructure:"iontor"`
	PacBioHQ     TypeConfig `mapstructure:"pcbiohq"`
	PacBioLQ     TypeConfig `mapstructure:"pcbiolq"`
	Text         TypeConfig `mapstructure:"text"`
	Solexa       TypeConfig `mapstructure:"solexa"`
	SOLiD        TypeConfig `mapstructure:"solid"`
}

// ContigConfig holds the settings shared by all sequencing types
type ContigConfig struct {
	// percent the insert size bounds are widened by before alignment
	TemplateSlack int `mapstructure:"template-slack"`

	// build the temporary consensus from rails where they are placed
	BackboneTmpCons bool `mapstructure:"backbone-tmpcons"`

	// columns at both contig ends where short reads are not merged
	KeepEndsUnmapped int `mapstructure:"keep-ends-unmapped"`

	// read coverage needed before the consensus overrides a rail
	BackboneUpdateMinCoverage int `mapstructure:"backbone-update-min-coverage"`

	// the maximum number of alignment attempts per read
	MaxAttempts int `mapstructure:"max-attempts"`
}

// AssemblyConfig is settings for the assembly driver
type AssemblyConfig struct {
	// k-mer prefilter settings
	KmerSize        int `mapstructure:"kmer-size"`
	MinSharedKmers  int `mapstructure:"min-shared-kmers"`
	MaxKmerPostings int `mapstructure:"max-kmer-postings"`

	// the number of bins assembled at once, 0 for one per CPU
	Workers int `mapstructure:"workers"`

	// quality clipping of reads with qualities
	QualityClip    bool    `mapstructure:"quality-clip"`
	ClipWindow     int     `mapstructure:"clip-window"`
	ClipMinQuality float64 `mapstructure:"clip-min-quality"`
	MinReadLength  int     `mapstructure:"min-read-length"`
}

// ServerConfig is settings for the HTTP server
type ServerConfig struct {
	// the listen address
	Addr string `mapstructure:"addr"`

	// the maximum number of reads accepted in one request
	MaxReads int `mapstructure:"max-reads"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a config file, the environment
// and those available from the command line
type Config struct {
	Contig   ContigConfig   `mapstructure:"contig"`
	Types    TypesConfig    `mapstructure:"types"`
	Assembly AssemblyConfig `mapstructure:"assembly"`
	Server   ServerConfig   `mapstructure:"server"`
}

// Default returns the built-in settings.
func Default() Config {
	p := contig.DefaultParams()
	opts := assembly.DefaultOptions()
	filter := quality.DefaultFilter()

	c := Config{
		Contig: ContigConfig{
			TemplateSlack:             p.TemplateSlack,
			BackboneTmpCons:           p.TmpConsFromBackbone,
			KeepEndsUnmapped:          p.KeepEndsUnmapped,
			BackboneUpdateMinCoverage: p.BackboneUpdateMinCoverage,
			MaxAttempts:               p.MaxAttempts,
		},
		Assembly: AssemblyConfig{
			KmerSize:        opts.KmerSize,
			MinSharedKmers:  opts.MinSharedKmers,
			MaxKmerPostings: opts.MaxKmerPostings,
			Workers:         opts.Workers,
			QualityClip:     true,
			ClipWindow:      filter.WindowSize,
			ClipMinQuality:  filter.MinWindowQuality,
			MinReadLength:   filter.MinLength,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			MaxReads: 10000,
		},
	}
	for t := readpool.SeqType(0); t < readpool.NumSeqTypes; t++ {
		*c.Types.get(t) = fromTypeParams(p.Types[t])
	}
	return c
}

func (tc *TypesConfig) get(t readpool.SeqType) *TypeConfig {
	switch t {
	case readpool.Sanger:
		return &tc.Sanger
	case readpool.FourFiveFour:
		return &tc.FourFiveFour
	case readpool.IonTorrent:
		return &tc.IonTorrent
	case readpool.PacBioHQ:
		return &tc.PacBioHQ
	case readpool.PacBioLQ:
		return &tc.PacBioLQ
	case readpool.Text:
		return &tc.Text
	case readpool.Solexa:
		return &tc.Solexa
	default:
		return &tc.SOLiD
	}
}

func fromTypeParams(tp contig.TypeParams) TypeConfig {
	return TypeConfig{
		MinOverlap:              tp.MinOverlap,
		BandWidth:               tp.BandWidth,
		CleanEnds:               tp.EnforceCleanEnds,
		MinRelScore:             tp.MinRelScore,
		MinRelScoreWithMate:     tp.MinRelScoreWithMate,
		MaxRelScoreDrop:         tp.MaxRelScoreDrop,
		MaxRelScoreDropWithMate: tp.MaxRelScoreDropWithMate,
		MaxCoverage:             tp.MaxCoverage,
		ShortReadRules:          tp.ShortReadRules,
		ShortReadMaxMismatches:  tp.ShortReadMaxMismatches,
		ShortReadMaxGaps:        tp.ShortReadMaxGaps,
		ShortReadMinEndMatch:    tp.ShortReadMinEndMatch,
		Merge:                   tp.MergeShortReads,
		MergeMaxMismatches:      tp.MergeMaxMismatches,
		MergeMaxGaps:            tp.MergeMaxGaps,
	}
}

func (c TypeConfig) params() contig.TypeParams {
	return contig.TypeParams{
		MinOverlap:              c.MinOverlap,
		BandWidth:               c.BandWidth,
		EnforceCleanEnds:        c.CleanEnds,
		MinRelScore:             c.MinRelScore,
		MinRelScoreWithMate:     c.MinRelScoreWithMate,
		MaxRelScoreDrop:         c.MaxRelScoreDrop,
		MaxRelScoreDropWithMate: c.MaxRelScoreDropWithMate,
		MaxCoverage:             c.MaxCoverage,
		ShortReadRules:          c.ShortReadRules,
		ShortReadMaxMismatches:  c.ShortReadMaxMismatches,
		ShortReadMaxGaps:        c.ShortReadMaxGaps,
		ShortReadMinEndMatch:    c.ShortReadMinEndMatch,
		MergeShortReads:         c.Merge,
		MergeMaxMismatches:      c.MergeMaxMismatches,
		MergeMaxGaps:            c.MergeMaxGaps,
	}
}

// SetDefaults registers the built-in settings with v so that a config
// file, the environment or flags only need to name what they change.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("contig.template-slack", d.Contig.TemplateSlack)
	v.SetDefault("contig.backbone-tmpcons", d.Contig.BackboneTmpCons)
	v.SetDefault("contig.keep-ends-unmapped", d.Contig.KeepEndsUnmapped)
	v.SetDefault("contig.backbone-update-min-coverage", d.Contig.BackboneUpdateMinCoverage)
	v.SetDefault("contig.max-attempts", d.Contig.MaxAttempts)

	for t := readpool.SeqType(0); t < readpool.NumSeqTypes; t++ {
		tc := d.Types.get(t)
		k := "types." + t.String() + "."
		v.SetDefault(k+"min-overlap", tc.MinOverlap)
		v.SetDefault(k+"band-width", tc.BandWidth)
		v.SetDefault(k+"clean-ends", tc.CleanEnds)
		v.SetDefault(k+"min-rel-score", tc.MinRelScore)
		v.SetDefault(k+"min-rel-score-with-mate", tc.MinRelScoreWithMate)
		v.SetDefault(k+"max-rel-score-drop", tc.MaxRelScoreDrop)
		v.SetDefault(k+"max-rel-score-drop-with-mate", tc.MaxRelScoreDropWithMate)
		v.SetDefault(k+"max-coverage", tc.MaxCoverage)
		v.SetDefault(k+"short-read-rules", tc.ShortReadRules)
		v.SetDefault(k+"short-read-max-mismatches", tc.ShortReadMaxMismatches)
		v.SetDefault(k+"short-read-max-gaps", tc.ShortReadMaxGaps)
		v.SetDefault(k+"short-read-min-end-match", tc.ShortReadMinEndMatch)
		v.SetDefault(k+"merge", tc.Merge)
		v.SetDefault(k+"merge-max-mismatches", tc.MergeMaxMismatches)
		v.SetDefault(k+"merge-max-gaps", tc.MergeMaxGaps)
	}

	v.SetDefault("assembly.kmer-size", d.Assembly.KmerSize)
	v.SetDefault("assembly.min-shared-kmers", d.Assembly.MinSharedKmers)
	v.SetDefault("assembly.max-kmer-postings", d.Assembly.MaxKmerPostings)
	v.SetDefault("assembly.workers", d.Assembly.Workers)
	v.SetDefault("assembly.quality-clip", d.Assembly.QualityClip)
	v.SetDefault("assembly.clip-window", d.Assembly.ClipWindow)
	v.SetDefault("assembly.clip-min-quality", d.Assembly.ClipMinQuality)
	v.SetDefault("assembly.min-read-length", d.Assembly.MinReadLength)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max-reads", d.Server.MaxReads)
}

// Load reads the settings from v: built-in defaults, then the config file
// (when file is not empty), then CONTIGFLOW_* environment variables and
// any flags bound to v.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks settings the engine cannot work with.
func (c *Config) Validate() error {
	for t := readpool.SeqType(0); t < readpool.NumSeqTypes; t++ {
		tc := c.Types.get(t)
		if tc.MinOverlap < 1 {
			return fmt.Errorf("types.%s.min-overlap must be positive", t)
		}
		if tc.BandWidth < 0 {
			return fmt.Errorf("types.%s.band-width must not be negative", t)
		}
		for name, pct := range map[string]int{
			"min-rel-score":                tc.MinRelScore,
			"min-rel-score-with-mate":      tc.MinRelScoreWithMate,
			"max-rel-score-drop":           tc.MaxRelScoreDrop,
			"max-rel-score-drop-with-mate": tc.MaxRelScoreDropWithMate,
		} {
			if pct < 0 || pct > 100 {
				return fmt.Errorf("types.%s.%s %d outside [0, 100]", t, name, pct)
			}
		}
	}
	if c.Contig.MaxAttempts < 1 {
		return fmt.Errorf("contig.max-attempts must be positive")
	}
	return c.AssemblyOptions().Validate()
}

// ContigParams converts the settings into contig parameters.
func (c *Config) ContigParams() *contig.Params {
	p := &contig.Params{
		TemplateSlack:             c.Contig.TemplateSlack,
		TmpConsFromBackbone:       c.Contig.BackboneTmpCons,
		KeepEndsUnmapped:          c.Contig.KeepEndsUnmapped,
		BackboneUpdateMinCoverage: c.Contig.BackboneUpdateMinCoverage,
		MaxAttempts:               c.Contig.MaxAttempts,
	}
	for t := readpool.SeqType(0); t < readpool.NumSeqTypes; t++ {
		p.Types[t] = c.Types.get(t).params()
	}
	return p
}

// AssemblyOptions converts the settings into driver options.
func (c *Config) AssemblyOptions() assembly.Options {
	opts := assembly.Options{
		Params:          c.ContigParams(),
		KmerSize:        c.Assembly.KmerSize,
		MinSharedKmers:  c.Assembly.MinSharedKmers,
		MaxKmerPostings: c.Assembly.MaxKmerPostings,
		Workers:         c.Assembly.Workers,
	}
	if c.Assembly.QualityClip {
		opts.Clip = &quality.Filter{
			MinLength:        c.Assembly.MinReadLength,
			WindowSize:       c.Assembly.ClipWindow,
			MinWindowQuality: c.Assembly.ClipMinQuality,
		}
	}
	return opts
}
