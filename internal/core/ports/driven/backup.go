package driven

// BackupStore copies store files aside before they are overwritten.
type BackupStore interface {
	// Backup copies the file at path and returns the path of the copy.
	Backup(path string) (string, error)
}
