package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"latex-insight/internal/types"
)

func TestBackupManager_CreateAndRestore(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.tex")
	if err := os.WriteFile(testFile, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	bm := NewBackupManager("")
	backup, err := bm.CreateBackup(testFile)
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	if filepath.Dir(backup) != tmpDir {
		t.Errorf("backup should sit next to the file, got %s", backup)
	}

	if err := os.WriteFile(testFile, []byte("modified"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := bm.Restore(backup, testFile); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	data, _ := os.ReadFile(testFile)
	if string(data) != "original" {
		t.Errorf("restored content = %q", data)
	}
}

func TestBackupManager_MissingFile(t *testing.T) {
	bm := NewBackupManager(t.TempDir())
	_, err := bm.CreateBackup(filepath.Join(t.TempDir(), "missing.tex"))
	if types.CodeOf(err) != types.ErrFileNotFound {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
	if err := bm.Restore("/nonexistent/backup", "x"); types.CodeOf(err) != types.ErrFileNotFound {
		t.Errorf("Restore from missing backup: %v", err)
	}
}

func TestBackupManager_ListAndCleanup(t *testing.T) {
	tmpDir := t.TempDir()
	backupDir := filepath.Join(tmpDir, "backups")
	testFile := filepath.Join(tmpDir, "test.tex")
	if err := os.WriteFile(testFile, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	bm := NewBackupManager(backupDir)
	var created []string
	for i := 0; i < 3; i++ {
		b, err := bm.CreateBackup(testFile)
		if err != nil {
			t.Fatal(err)
		}
		created = append(created, b)
		time.Sleep(5 * time.Millisecond)
	}

	backups, err := bm.ListBackups(testFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("ListBackups() = %v", backups)
	}
	latest, err := bm.GetLatestBackup(testFile)
	if err != nil || latest != created[2] {
		t.Errorf("GetLatestBackup() = %s, %v; want %s", latest, err, created[2])
	}

	if err := bm.CleanupBackups(testFile, 1); err != nil {
		t.Fatal(err)
	}
	backups, _ = bm.ListBackups(testFile)
	if len(backups) != 1 || backups[0] != created[2] {
		t.Errorf("after cleanup: %v", backups)
	}
}
