// Package devconfig assembles the device data pushed to a Tofino switch
// with a forwarding pipeline: the program name, the compiled binary and
// the context JSON, each preceded by its length as a little-endian int32.
package devconfig

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// DefaultProgramName is used when neither a name nor a program is given.
const DefaultProgramName = "program"

// DeviceData is the decoded form of an encoded device config.
type DeviceData struct {
	Name    string
	Binary  []byte
	Context []byte
}

// Encode frames name, bin and ctx.
func Encode(name string, bin, ctx []byte) ([]byte, error) {
	var buf bytes.Buffer
	for _, part := range [][]byte{[]byte(name), bin, ctx} {
		if len(part) > math.MaxInt32 {
			return nil, fmt.Errorf("device config part too large: %d bytes", len(part))
		}
		_ = binary.Write(&buf, binary.LittleEndian, int32(len(part)))
		buf.Write(part)
	}
	return buf.Bytes(), nil
}

// ErrTruncated is returned by Decode for data shorter than its framing
// claims.
var ErrTruncated = errors.New("device config truncated")

// Decode is the inverse of Encode.
func Decode(data []byte) (DeviceData, error) {
	r := bytes.NewReader(data)
	var parts [3][]byte
	for i := range parts {
		var n int32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return DeviceData{}, ErrTruncated
		}
		if n < 0 || int64(n) > int64(r.Len()) {
			return DeviceData{}, ErrTruncated
		}
		parts[i] = make([]byte, n)
		if _, err := io.ReadFull(r, parts[i]); err != nil {
			return DeviceData{}, ErrTruncated
		}
	}
	if r.Len() != 0 {
		return DeviceData{}, fmt.Errorf("device config has %d trailing bytes", r.Len())
	}
	return DeviceData{Name: string(parts[0]), Binary: parts[1], Context: parts[2]}, nil
}

// Artifacts are the compiler outputs of one pipeline.
type Artifacts struct {
	Binary  string
	Context string
	P4Info  string
}

type confFile struct {
	Devices []struct {
		Programs []struct {
			Pipelines []struct {
				Config  string `json:"config"`
				Context string `json:"context"`
				Path    string `json:"path"`
			} `json:"p4_pipelines"`
		} `json:"p4_programs"`
	} `json:"p4_devices"`
}

// ConfPath is where an installed program's conf file lives.
func ConfPath(installDir, arch, program string) string {
	return filepath.Join(installDir, "share", "p4", "targets", arch, program+".conf")
}

// FromInstall locates the artifacts of an installed program through its
// conf file. Only single-program single-pipeline confs are supported.
func FromInstall(installDir, arch, program string) (Artifacts, error) {
	path := ConfPath(installDir, arch, program)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Artifacts{}, fmt.Errorf("Conf file '%s' not found", path)
		}
		return Artifacts{}, err
	}
	var conf confFile
	if err := json.Unmarshal(data, &conf); err != nil {
		return Artifacts{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(conf.Devices) == 0 || len(conf.Devices[0].Programs) == 0 {
		return Artifacts{}, fmt.Errorf("%s: no p4 program", path)
	}
	programs := conf.Devices[0].Programs
	if len(programs) > 1 {
		return Artifacts{}, errors.New("More than one program in conf file is not supported with P4Runtime")
	}
	pipes := programs[0].Pipelines
	if len(pipes) == 0 {
		return Artifacts{}, fmt.Errorf("%s: no p4 pipeline", path)
	}
	if len(pipes) > 1 {
		return Artifacts{}, errors.New("More than one pipeline in conf file is not supported with P4Runtime")
	}
	return Artifacts{
		Binary:  filepath.Join(installDir, pipes[0].Config),
		Context: filepath.Join(installDir, pipes[0].Context),
		P4Info:  filepath.Join(installDir, pipes[0].Path, "p4info.pb.txt"),
	}, nil
}

// FromTestDir locates the artifacts in a compiler output directory.
func FromTestDir(dir, p4info string) Artifacts {
	return Artifacts{
		Binary:  filepath.Join(dir, "tofino.bin"),
		Context: filepath.Join(dir, "context.json"),
		P4Info:  p4info,
	}
}

// Check verifies every artifact exists.
func (a Artifacts) Check() error {
	for _, f := range []struct{ what, path string }{
		{"P4info text protobuf", a.P4Info},
		{"Binary config", a.Binary},
		{"Context JSON", a.Context},
	} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			return fmt.Errorf("%s file '%s' not found", f.what, f.path)
		}
	}
	return nil
}

// Build reads the binary and context of a and frames them under name.
func (a Artifacts) Build(name string) ([]byte, error) {
	bin, err := os.ReadFile(a.Binary)
	if err != nil {
		return nil, err
	}
	ctx, err := os.ReadFile(a.Context)
	if err != nil {
		return nil, err
	}
	return Encode(name, bin, ctx)
}
