package config

const (
	defaultWorkspaceDir     = "~/.local/share/reelcut"
	defaultLogRetentionDays = 60
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	defaultMinConfidence = 35.0
	defaultMinGapSeconds = 10.0
	defaultSceneWeight   = 30.0
	defaultBlackWeight   = 20.0
	defaultAudioWeight   = 25.0

	defaultBlackMinDuration      = 0.3
	defaultBlackPictureThreshold = 0.10
	defaultVerifyWorkers         = 4

	defaultSplitPreset    = "fast"
	defaultSplitCRF       = 22
	defaultAudioBitrate   = "128k"
	defaultMinClipSeconds = 2.0

	defaultTranscribeBinary = "whisper"
	defaultTranscribeModel  = "base"

	defaultGalleryTitle  = "Captured Clips"
	defaultThumbsPerClip = 3

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultToolTimeout   = 7200
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
		},
		Detection: Detection{
			MinConfidence:         defaultMinConfidence,
			MinGapSeconds:         defaultMinGapSeconds,
			SceneWeight:           defaultSceneWeight,
			BlackWeight:           defaultBlackWeight,
			AudioWeight:           defaultAudioWeight,
			BlackMinDuration:      defaultBlackMinDuration,
			BlackPictureThreshold: defaultBlackPictureThreshold,
			Verify:                true,
			VerifyWorkers:         defaultVerifyWorkers,
		},
		Split: Split{
			Preset:         defaultSplitPreset,
			CRF:            defaultSplitCRF,
			AudioBitrate:   defaultAudioBitrate,
			Deinterlace:    true,
			Denoise:        true,
			MinClipSeconds: defaultMinClipSeconds,
		},
		Transcription: Transcription{
			Binary:   defaultTranscribeBinary,
			Model:    defaultTranscribeModel,
			Language: "en",
		},
		Gallery: Gallery{
			Title:         defaultGalleryTitle,
			ThumbsPerClip: defaultThumbsPerClip,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			TimeoutSeconds: defaultToolTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
