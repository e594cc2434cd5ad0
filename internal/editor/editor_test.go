package editor

import (
	"os"
	"path/filepath"
	"testing"

	"latex-insight/internal/source"
	"latex-insight/internal/types"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		edits   []Edit
		want    string
		wantErr bool
	}{
		{
			name:  "no edits",
			text:  "café",
			edits: nil,
			want:  "café",
		},
		{
			name:  "replace",
			text:  "café",
			edits: []Edit{{Start: 3, End: 5, Text: `\'{e}`}},
			want:  `caf\'{e}`,
		},
		{
			name: "unordered edits",
			text: "a-b-c",
			edits: []Edit{
				{Start: 4, End: 5, Text: "C"},
				{Start: 0, End: 1, Text: "A"},
			},
			want: "A-b-C",
		},
		{
			name: "insertions at one offset keep their order",
			text: "xy",
			edits: []Edit{
				{Start: 1, End: 1, Text: "1"},
				{Start: 1, End: 1, Text: "2"},
			},
			want: "x12y",
		},
		{
			name: "overlap",
			text: "abcdef",
			edits: []Edit{
				{Start: 0, End: 3, Text: "x"},
				{Start: 2, End: 4, Text: "y"},
			},
			wantErr: true,
		},
		{
			name:    "out of range",
			text:    "abc",
			edits:   []Edit{{Start: 2, End: 9, Text: "x"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.text, tt.edits)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if types.CodeOf(err) != types.ErrEdit {
					t.Errorf("expected EDIT_ERROR, got %v", types.CodeOf(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileEditorApplyToFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.tex")
	original := "\xEF\xBB\xBFcafé\n"
	if err := os.WriteFile(path, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := source.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	backupDir := filepath.Join(tmpDir, "backups")
	ed := NewFileEditor(NewBackupManager(backupDir))
	backup, err := ed.ApplyToFile(f, []Edit{{Start: 3, End: 5, Text: `\'{e}`}})
	if err != nil {
		t.Fatalf("ApplyToFile: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "\xEF\xBB\xBFcaf\\'{e}\n" {
		t.Errorf("file content = %q, BOM must be kept", data)
	}
	saved, _ := os.ReadFile(backup)
	if string(saved) != original {
		t.Errorf("backup content = %q", saved)
	}
	if filepath.Dir(backup) != backupDir {
		t.Errorf("backup written to %s", backup)
	}
}

func TestFileEditorNoEdits(t *testing.T) {
	tmpDir := t.TempDir()
	f, _ := source.FromString(filepath.Join(tmpDir, "virtual.tex"), "x")
	backup, err := NewFileEditor(NewBackupManager("")).ApplyToFile(f, nil)
	if err != nil || backup != "" {
		t.Errorf("ApplyToFile(nil) = %q, %v", backup, err)
	}
}

func TestFileEditorRejectsBadEdits(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.tex")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	f, _ := source.Load(path)

	bm := NewBackupManager("")
	_, err := NewFileEditor(bm).ApplyToFile(f, []Edit{{Start: 1, End: 10}})
	if types.CodeOf(err) != types.ErrEdit {
		t.Fatalf("expected EDIT_ERROR, got %v", err)
	}
	if backups, _ := bm.ListBackups(path); len(backups) != 0 {
		t.Errorf("rejected edits must not leave backups: %v", backups)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "abc" {
		t.Errorf("file changed: %q", data)
	}
}
