package service

import (
	"os"
	"path/filepath"

	"taskdesk/internal/storage"
)

// BackupAll copies every data document into backupDir under timestamped
// names and returns the created backup paths. Documents that do not exist
// yet are skipped. This is a manual operation — nothing triggers it
// automatically.
func BackupAll(dataDir, backupDir string) ([]string, error) {
	var created []string
	for _, name := range []string{TasksFile, ProjectsFile, SettingsFile} {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		dst, err := storage.Backup(path, backupDir)
		if err != nil {
			return created, err
		}
		created = append(created, dst)
	}
	return created, nil
}
