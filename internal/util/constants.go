package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeAudio       = "audio/"
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedAudioExtensions = []string{".mp3", ".ogg", ".wav", ".m4a", ".aac"}

	// CEFR等级，课程与词典条目共用
	CEFRLevels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}
)

// IsValidCEFRLevel 校验CEFR等级取值
func IsValidCEFRLevel(level string) bool {
	for _, l := range CEFRLevels {
		if l == level {
			return true
		}
	}
	return false
}
