package cmd

import (
	"os"
	"path/filepath"
	"testing"

	cfgpkg "github.com/KaramelBytes/distlab-cli/internal/config"
	"github.com/KaramelBytes/distlab-cli/internal/session"
)

func setupLab(t *testing.T) {
	t.Helper()
	cfg = cfgpkg.Default()
	sess = session.New(cfg)
}

func TestLabDispatchHelp(t *testing.T) {
	setupLab(t)
	if err := labDispatch("help", ""); err != nil {
		t.Fatalf("help: %v", err)
	}
	if labCmd.Long != labHelp {
		t.Fatalf("lab help text diverged from the command Long")
	}
}

func TestLabDispatchUnknownVerb(t *testing.T) {
	setupLab(t)
	if err := labDispatch("bogus", ""); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestLabDispatchStageImportFlow(t *testing.T) {
	setupLab(t)
	path := filepath.Join(t.TempDir(), "data.csv")
	csv := "SupplierID,Deliverdate,CustomerID,Model,Number\nS1,2024-01-01,C1,M-1,10"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := labDispatch("stage", path); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if sess.State() != session.StateStaged {
		t.Fatalf("state = %v", sess.State())
	}
	if err := labDispatch("import", ""); err != nil {
		t.Fatalf("import: %v", err)
	}
	if sess.Active.RowCount() != 1 {
		t.Fatalf("active rows = %d", sess.Active.RowCount())
	}
}
