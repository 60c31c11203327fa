package config

import "time"

// GlobalFlags holds the persistent flags of the root command
type GlobalFlags struct {
	LogLevel string
}

// ContextConfig holds context-related flags
type ContextConfig struct {
	JSON string
	KV   []string
	File string
}

// UploadConfig holds upload-related flags
type UploadConfig struct {
	Provider   string
	Config     string
	ConfigKV   []string
	ConfigFile string
	Path       string // remote path of the uploaded log, defaults to its base name
}

// CommonFlags holds commonly used flags across commands
type CommonFlags struct {
	Verbose    bool
	TimeoutStr string
	Timeout    time.Duration
}

// WebhookConfig holds webhook-related flags
type WebhookConfig struct {
	// Direct configuration flags
	URL        string
	Method     string // HTTP method (GET, POST, PUT, PATCH, DELETE)
	AuthType   string
	AuthToken  string
	Timeout    string
	Retries    int
	RetryDelay string

	// Alternative configuration methods
	Config     string   // JSON string configuration
	ConfigKV   []string // Key-value pairs
	ConfigFile string   // Path to JSON, YAML or TOML config file
}

// RunFlags holds every flag of the run command
type RunFlags struct {
	Common  CommonFlags
	Context ContextConfig
	Webhook WebhookConfig
	Upload  UploadConfig

	Log    string
	Cwd    string
	Quiet  bool
	Result string
}

// BumpVersionFlags holds bump-version flags
type BumpVersionFlags struct {
	Pubspec   string
	TagPrefix string
}

// KeystoreFlags holds gen-keystore flags
type KeystoreFlags struct {
	Props  string
	Output string
	Alias  string
	Config string
	Dname  string
	Force  bool
}

// ChangelogFlags holds gen-changelog flags
type ChangelogFlags struct {
	Tag        string
	Output     string
	MaxCommits int
	Model      string
	APIKey     string
	BaseURL    string
	Prompt     string
	Lang       string
	AppName    string
	SaveKey    bool
}

// WebBuildFlags holds the flags shared by the web-build subcommands
type WebBuildFlags struct {
	Src            string
	Dst            string
	PackageManager string
	BuildCommand   string
	OutputDir      string
}

// PlatformsFlags holds gen-platforms flags
type PlatformsFlags struct {
	Config     string
	Project    string
	Flutter    string
	SkipCreate bool
	Clean      bool
}
