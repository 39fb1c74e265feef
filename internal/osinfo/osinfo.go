// Package osinfo identifies the running Linux distribution from
// /etc/os-release.
package osinfo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-ini/ini"
)

// ReleaseFile is the standard location of the os-release data.
const ReleaseFile = "/etc/os-release"

var canonicalNames = map[string]string{
	"ubuntu": "Ubuntu",
	"centos": "CentOS",
	"debian": "Debian",
}

// ErrNoID is returned when os-release data carries no ID.
var ErrNoID = errors.New("os-release: missing ID")

// Info is the parsed os-release data.
type Info struct {
	Data map[string]string
}

// Parse reads os-release data, which is INI without sections. Comments
// are skipped, surrounding quotes are removed and \" is unescaped.
func Parse(r io.Reader) (*Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read os-release: %w", err)
	}
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreContinuation:        true,
		IgnoreInlineComment:       true,
		SkipUnrecognizableLines:   true,
		UnescapeValueDoubleQuotes: true,
		KeyValueDelimiters:        "=",
	}, data)
	if err != nil {
		return nil, fmt.Errorf("parse os-release: %w", err)
	}
	info := &Info{Data: cfg.Section(ini.DefaultSection).KeysHash()}
	if info.Data["ID"] == "" {
		return nil, ErrNoID
	}
	return info, nil
}

// Read parses the file at path.
func Read(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read os-release: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Detect parses ReleaseFile.
func Detect() (*Info, error) { return Read(ReleaseFile) }

// Name is the canonical distribution name, e.g. Ubuntu.
func (i *Info) Name() string { return Canonicalize(strings.ToLower(i.Data["ID"])) }

// Version is VERSION_ID, e.g. 20.04.
func (i *Info) Version() string { return i.Data["VERSION_ID"] }

// Canonicalize maps a lower-case distribution id to the name used in
// dependency files. Unknown ids are returned unchanged.
func Canonicalize(id string) string {
	if name, ok := canonicalNames[id]; ok {
		return name
	}
	return id
}
