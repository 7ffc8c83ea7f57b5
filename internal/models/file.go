package models

// SharedFile is an uploaded file held for on-demand download.
// FileData is the client's encoded payload and is never inspected.
type SharedFile struct {
	FileID    string `json:"fileId"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	FileType  string `json:"fileType"`
	FileData  string `json:"fileData"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Timestamp int64  `json:"timestamp"`

	// Room that owns the record; empty means it belongs to the uploader.
	RoomID string `json:"-"`
}

// FileMetadata is a SharedFile without its payload.
type FileMetadata struct {
	FileID    string `json:"fileId"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	FileType  string `json:"fileType"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Timestamp int64  `json:"timestamp"`
}

func (f SharedFile) Metadata() FileMetadata {
	return FileMetadata{
		FileID:    f.FileID,
		FileName:  f.FileName,
		FileSize:  f.FileSize,
		FileType:  f.FileType,
		UserID:    f.UserID,
		UserName:  f.UserName,
		Timestamp: f.Timestamp,
	}
}
