package spec

type BenchSpec struct {
	Dataset DatasetConfig     `yaml:"dataset"`
	Methods map[string]Method `yaml:"methods"`
	Metrics MetricsConfig     `yaml:"metrics"`
	Runs    RunsConfig        `yaml:"runs"`
	Jobs    []Job             `yaml:"jobs"`
	Export  ExportConfig      `yaml:"export"`
	Storage StorageConfig     `yaml:"storage"`
}

type DatasetConfig struct {
	JudgementsDir string   `yaml:"judgements_dir"`
	ImagesDir     string   `yaml:"images_dir"`
	ImageExt      string   `yaml:"image_ext"`
	SplitFile     string   `yaml:"split_file"`
	Splits        []int    `yaml:"splits"`
	SampleEvery   int      `yaml:"sample_every"`
	Exclude       []string `yaml:"exclude"`
}

type Method struct {
	Type        string   `yaml:"type"`
	Dir         string   `yaml:"dir"`
	Title       string   `yaml:"title,omitempty"`
	Reflectance string   `yaml:"reflectance,omitempty"`
	Shading     string   `yaml:"shading,omitempty"`
	Spaces      []string `yaml:"spaces,omitempty"`
}

type MetricsConfig struct {
	Delta      *float64 `yaml:"delta"`
	ColorSpace string   `yaml:"color_space"`
}

type RunsConfig struct {
	Workers int    `yaml:"workers"`
	OnError string `yaml:"on_error"`
}

type Job struct {
	Name    string   `yaml:"name"`
	Methods []string `yaml:"methods"`
	// Splits overrides dataset.splits for this job.
	Splits []int `yaml:"splits,omitempty"`
}

type ExportConfig struct {
	OutputDir    string `yaml:"output_dir"`
	RelDir       string `yaml:"rel_dir"`
	Quality      int    `yaml:"quality"`
	InputQuality int    `yaml:"input_quality"`
	SkipExisting bool   `yaml:"skip_existing"`
	Manifest     string `yaml:"manifest"`
}

type StorageConfig struct {
	Postgres string `yaml:"postgres"`
}

// DeltaOrDefault returns the configured threshold; validate fills it in.
func (m MetricsConfig) DeltaOrDefault() float64 {
	if m.Delta == nil {
		return DefaultDelta
	}
	return *m.Delta
}
