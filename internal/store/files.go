package store

import "github.com/thereayou/voxus-signal/internal/models"

// FileStore keeps uploaded files until their owning room or uploader goes away.
type FileStore struct {
	files map[string]models.SharedFile
}

func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string]models.SharedFile)}
}

func (s *FileStore) Put(f models.SharedFile) {
	s.files[f.FileID] = f
}

func (s *FileStore) Get(fileID string) (models.SharedFile, bool) {
	f, ok := s.files[fileID]
	return f, ok
}

// DeleteRoom drops every file shared into roomID.
func (s *FileStore) DeleteRoom(roomID string) int {
	if roomID == "" {
		return 0
	}
	return s.deleteWhere(func(f models.SharedFile) bool { return f.RoomID == roomID })
}

// DeleteUploader drops the files connID uploaded outside of any room.
func (s *FileStore) DeleteUploader(connID string) int {
	return s.deleteWhere(func(f models.SharedFile) bool { return f.RoomID == "" && f.UserID == connID })
}

func (s *FileStore) deleteWhere(match func(models.SharedFile) bool) int {
	n := 0
	for id, f := range s.files {
		if match(f) {
			delete(s.files, id)
			n++
		}
	}
	return n
}

func (s *FileStore) Len() int {
	return len(s.files)
}
