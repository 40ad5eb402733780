package config

const (
	defaultWorkDir        = "~/.local/share/vidmux/work"
	defaultLogDir         = "~/.local/share/vidmux/logs"
	defaultBind           = "127.0.0.1:8993"
	defaultFFmpeg         = "ffmpeg"
	defaultFFprobe        = "ffprobe"
	defaultYtDlp          = "yt-dlp"
	defaultSoffice        = "soffice"
	defaultRequestTimeout = 600
	defaultMaxUploadMiB   = 512
	defaultMinFreeGiB     = 2
	defaultQuality        = 23
	defaultPreset         = "fast"
	defaultAudioBitrate   = "192k"
	defaultHistoryKeep    = 500
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
			Bind:    defaultBind,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
			YtDlp:   defaultYtDlp,
			Soffice: defaultSoffice,
		},
		Limits: Limits{
			RequestTimeout: defaultRequestTimeout,
			MaxUploadMiB:   defaultMaxUploadMiB,
			MinFreeGiB:     defaultMinFreeGiB,
		},
		Encode: Encode{
			Quality:      defaultQuality,
			Preset:       defaultPreset,
			AudioBitrate: defaultAudioBitrate,
		},
		History: History{
			Enabled: true,
			Keep:    defaultHistoryKeep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
