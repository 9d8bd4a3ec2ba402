package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 50
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = 100
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "/usr/local/var/resumatch/uploads"
	}
	if cfg.Storage.AllowedExtensions == nil {
		cfg.Storage.AllowedExtensions = []string{".pdf", ".docx"}
	}
	if cfg.Upload.MaxFileSizeMB == 0 {
		cfg.Upload.MaxFileSizeMB = 20
	}
	if cfg.Filter.ExtractTimeoutSeconds == 0 {
		cfg.Filter.ExtractTimeoutSeconds = 10
	}
}
