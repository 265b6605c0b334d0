package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "rna-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the sequence-acquisition stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the genome-database REST endpoint queried for locus
	// records (default: the SGD backend API).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// UTRLength truncates the fetched sequence to its leading UTRLength
	// nucleotides when positive (5'UTR extraction).
	UTRLength int `json:"utr_length" yaml:"utr_length"`

	// DataDir is the directory FASTA files and metadata are written to.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxRetries bounds retry attempts on rate-limited or transient
	// server errors (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RNAfoldConfig holds settings for the RNAfold runner.
type RNAfoldConfig struct {
	// Binary is the RNAfold executable name or path (default "RNAfold").
	Binary string `json:"binary" yaml:"binary"`

	// Temperature is the folding temperature in Celsius (default 37).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxBPSpan limits the base-pair span; zero leaves the tool default.
	MaxBPSpan int `json:"max_bp_span" yaml:"max_bp_span"`
}

// MfoldConfig holds settings for the mfold runner. mfold is driven through
// environment variables rather than flags.
type MfoldConfig struct {
	// Binary is the mfold executable name or path (default "mfold").
	Binary string `json:"binary" yaml:"binary"`

	// Temperature is the folding temperature in Celsius (default 37).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxStructures caps the number of structures mfold reports
	// (default 10).
	MaxStructures int `json:"max_structures" yaml:"max_structures"`
}

// PredictionConfig holds settings for the secondary-structure prediction stage.
type PredictionConfig struct {
	// WorkDir is the pipeline working directory; per-sequence output goes
	// under WorkDir/output/sequences/<name>/.
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// Methods selects the predictors to run (default ["rnafold"]).
	Methods []string `json:"methods" yaml:"methods"`

	RNAfold RNAfoldConfig `json:"rnafold" yaml:"rnafold"`
	Mfold   MfoldConfig   `json:"mfold" yaml:"mfold"`
}

// SlurmConfig holds the scheduler settings used when templating job scripts.
type SlurmConfig struct {
	Partition   string `json:"partition" yaml:"partition"`
	Time        string `json:"time" yaml:"time"`
	Mem         string `json:"mem" yaml:"mem"`
	CPUsPerTask int    `json:"cpus_per_task" yaml:"cpus_per_task"`
	GPUs        int    `json:"gpus" yaml:"gpus"`
	Nodes       int    `json:"nodes" yaml:"nodes"`
	MPIRanks    int    `json:"mpi_ranks" yaml:"mpi_ranks"`

	// Exclude lists nodes the job must avoid, comma separated.
	Exclude string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// MailUser receives job state notifications. Usually loaded from the
	// .secrets/ directory rather than the config file.
	MailUser string `json:"mail_user,omitempty" yaml:"mail_user,omitempty"`

	// Account is the SLURM accounting group, when the cluster requires one.
	Account string `json:"account,omitempty" yaml:"account,omitempty"`
}

// TertiaryConfig holds settings for the 3D-structure stage.
type TertiaryConfig struct {
	// WorkDir is the pipeline working directory; 3D output goes under
	// WorkDir/output/3d_structures/<name>/.
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// Methods selects the 3D predictors (rosetta, simrna, farna).
	Methods []string `json:"methods" yaml:"methods"`

	// PollInterval is the delay between squeue checks while waiting on a
	// job (default 30s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// WaitTimeout bounds how long a submitted job is waited on
	// (default 24h).
	WaitTimeout time.Duration `json:"wait_timeout" yaml:"wait_timeout"`

	Slurm SlurmConfig `json:"slurm" yaml:"slurm"`
}

// ResultsConfig holds settings for the results store.
type ResultsConfig struct {
	// WorkDir is the pipeline working directory; the SQLite index lives at
	// WorkDir/output/index/results.db.
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// MaxResults is the default maximum number of query rows (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// BatchConfig holds settings for directory-driven batch prediction.
type BatchConfig struct {
	// InputDir is scanned for .fasta/.fa/.fas files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// MaxJobs bounds concurrent per-sequence pipeline runs (default 4).
	MaxJobs int `json:"max_jobs" yaml:"max_jobs"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Prediction PredictionConfig `json:"prediction" yaml:"prediction"`
	Tertiary   TertiaryConfig   `json:"tertiary" yaml:"tertiary"`
	Results    ResultsConfig    `json:"results" yaml:"results"`
	Batch      BatchConfig      `json:"batch" yaml:"batch"`
}
