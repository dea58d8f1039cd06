package report

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/SapirCardona/linkedinsights/internal/config"
)

//go:embed default_schema.yaml
var defaultSchemaYAML []byte

// Percentage encodings for bare numbers in the demographics sheet
const (
	PercentFraction = "fraction"
	PercentPercent  = "percent"
)

// JobTitlesCategory is the demographics category whose limit the
// configuration can override
const JobTitlesCategory = "Job titles"

// Schema names every sheet, column and cell the pipeline reads
type Schema struct {
	Followers    FollowersSchema    `yaml:"followers"`
	Discovery    DiscoverySchema    `yaml:"discovery"`
	TopPosts     TopPostsSchema     `yaml:"top_posts"`
	Engagement   EngagementSchema   `yaml:"engagement"`
	Demographics DemographicsSchema `yaml:"demographics"`
}

type FollowersSchema struct {
	Sheet              string `yaml:"sheet" validate:"required"`
	HeaderOffset       int    `yaml:"header_offset" validate:"gte=0"`
	DateColumn         string `yaml:"date_column" validate:"required"`
	NewFollowersColumn string `yaml:"new_followers_column" validate:"required"`
	TotalFollowersCell string `yaml:"total_followers_cell"`
}

type DiscoverySchema struct {
	Sheet               string `yaml:"sheet" validate:"required"`
	HeaderOffset        int    `yaml:"header_offset" validate:"gte=0"`
	LabelColumn         string `yaml:"label_column" validate:"required"`
	ValueColumn         string `yaml:"value_column"`
	ImpressionsLabel    string `yaml:"impressions_label" validate:"required"`
	MembersReachedLabel string `yaml:"members_reached_label" validate:"required"`
}

// ColumnSlice selects one column by header or letter, skipping the first
// SkipRows data rows
type ColumnSlice struct {
	Header   string `yaml:"header" validate:"required_without=Letter"`
	Letter   string `yaml:"letter" validate:"omitempty,alpha"`
	SkipRows int    `yaml:"skip_rows" validate:"gte=0"`
}

type TopPostsSchema struct {
	Sheet        string        `yaml:"sheet" validate:"required"`
	HeaderOffset int           `yaml:"header_offset" validate:"gte=0"`
	DateColumns  []ColumnSlice `yaml:"date_columns" validate:"required,min=1,dive"`
}

type EngagementSchema struct {
	Sheet             string `yaml:"sheet" validate:"required"`
	HeaderOffset      int    `yaml:"header_offset" validate:"gte=0"`
	DateColumn        string `yaml:"date_column" validate:"required"`
	ImpressionsColumn string `yaml:"impressions_column" validate:"required"`
	EngagementsColumn string `yaml:"engagements_column" validate:"required"`
}

// DemographicCategory is one ranked table. Limit 0 keeps every row.
type DemographicCategory struct {
	Name  string `yaml:"name" validate:"required"`
	Title string `yaml:"title"`
	Limit int    `yaml:"limit" validate:"gte=0"`
}

type DemographicsSchema struct {
	Sheet            string                `yaml:"sheet" validate:"required"`
	HeaderOffset     int                   `yaml:"header_offset" validate:"gte=0"`
	CategoryColumn   string                `yaml:"category_column" validate:"required"`
	ValueColumn      string                `yaml:"value_column" validate:"required"`
	PercentageColumn string                `yaml:"percentage_column" validate:"required"`
	PercentEncoding  string                `yaml:"percent_encoding" validate:"oneof=fraction percent"`
	Categories       []DemographicCategory `yaml:"categories" validate:"required,min=1,dive"`
}

var schemaValidator = validator.New()

// DefaultSchema returns the built-in LinkedIn export layout
func DefaultSchema() *Schema {
	s, err := ParseSchema(defaultSchemaYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded schema: %v", err))
	}
	return s
}

// LoadSchema reads a schema file; an empty path yields DefaultSchema
func LoadSchema(path string) (*Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes and validates YAML. Omitted percent_encoding
// defaults to fraction.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if s.Demographics.PercentEncoding == "" {
		s.Demographics.PercentEncoding = PercentFraction
	}
	if err := schemaValidator.Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &s, nil
}

// WithCategoryLimit returns a copy of s with the named category's limit replaced
func (s *Schema) WithCategoryLimit(name string, limit int) *Schema {
	out := *s
	out.Demographics.Categories = make([]DemographicCategory, len(s.Demographics.Categories))
	copy(out.Demographics.Categories, s.Demographics.Categories)
	for i := range out.Demographics.Categories {
		if out.Demographics.Categories[i].Name == name {
			out.Demographics.Categories[i].Limit = limit
		}
	}
	return &out
}

// SchemaFromConfig loads the configured schema file and applies the job
// title limit override
func SchemaFromConfig(cfg config.ReportConfig) (*Schema, error) {
	s, err := LoadSchema(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}
	if cfg.JobTitleLimit > 0 {
		s = s.WithCategoryLimit(JobTitlesCategory, cfg.JobTitleLimit)
	}
	return s, nil
}
