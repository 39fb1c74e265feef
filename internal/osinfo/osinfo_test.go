package osinfo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const ubuntu = `NAME="Ubuntu"
VERSION="20.04.3 LTS (Focal Fossa)"
ID=ubuntu
ID_LIKE=debian

# comment
VERSION_ID="20.04"
HOME_URL="https://www.ubuntu.com/"
`

func TestParse(t *testing.T) {
	info, err := Parse(strings.NewReader(ubuntu))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.Name() != "Ubuntu" || info.Version() != "20.04" {
		t.Errorf("got %s %s", info.Name(), info.Version())
	}
	if info.Data["HOME_URL"] != "https://www.ubuntu.com/" {
		t.Errorf("HOME_URL = %q", info.Data["HOME_URL"])
	}
}

func TestParseQuoting(t *testing.T) {
	src := `# generated
ID='debian'
VERSION_ID="11"
PRETTY_NAME="Debian \"bullseye\" # stable"
BUG_REPORT_URL=https://bugs.debian.org/#top
`
	info, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.Name() != "Debian" || info.Version() != "11" {
		t.Errorf("got %s %s", info.Name(), info.Version())
	}
	if got := info.Data["PRETTY_NAME"]; got != `Debian "bullseye" # stable` {
		t.Errorf("PRETTY_NAME = %q", got)
	}
	if got := info.Data["BUG_REPORT_URL"]; got != "https://bugs.debian.org/#top" {
		t.Errorf("BUG_REPORT_URL = %q", got)
	}
}

func TestCanonicalize(t *testing.T) {
	tests := map[string]string{
		"ubuntu": "Ubuntu",
		"centos": "CentOS",
		"debian": "Debian",
		"fedora": "fedora",
	}
	for id, want := range tests {
		if got := Canonicalize(id); got != want {
			t.Errorf("Canonicalize(%s) = %s, want %s", id, got, want)
		}
	}
	info, err := Parse(strings.NewReader("ID=\"CentOS\"\nVERSION_ID=\"8\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Name() != "CentOS" {
		t.Errorf("Name = %s", info.Name())
	}
}

func TestMissingID(t *testing.T) {
	if _, err := Parse(strings.NewReader("NAME=x\n")); !errors.Is(err, ErrNoID) {
		t.Errorf("error = %v, want ErrNoID", err)
	}
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "os-release")
	if err := os.WriteFile(path, []byte(ubuntu), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := Read(path)
	if err != nil || info.Name() != "Ubuntu" {
		t.Fatalf("Read = %v, %v", info, err)
	}
	if _, err := Read(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
