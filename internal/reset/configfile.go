// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package reset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/HappyFox001/cursor-free/internal/logging"
	"github.com/HappyFox001/cursor-free/internal/model"
)

// Keys written into the storage document.
const (
	StorageMachineIDKey    = "telemetryMachineId"
	StorageDeviceIDKey     = "telemetryDevDeviceId"
	StorageMacMachineIDKey = "telemetryMacMachineId"
)

// Keys written into the state document.
const (
	StateMachineIDKey    = "machineId"
	StateDeviceIDKey     = "deviceId"
	StateMacMachineIDKey = "macMachineId"
)

// ErrNotObject is returned when the storage document's root is not a JSON object.
var ErrNotObject = errors.New("json root is not an object")

// UpdateConfigFiles writes ids into both documents of loc. Storage is written
// first. Unrelated keys and their values are kept as they were.
func UpdateConfigFiles(loc model.ConfigFileLocation, ids model.IdentitySet) error {
	if err := updateStorage(loc.StoragePath, ids); err != nil {
		return fmt.Errorf("update %s: %w", loc.StoragePath, err)
	}
	if err := updateState(loc.StatePath, ids); err != nil {
		return fmt.Errorf("update %s: %w", loc.StatePath, err)
	}
	return nil
}

func updateStorage(path string, ids model.IdentitySet) error {
	data, err := readDocument(path)
	if err != nil {
		return err
	}
	doc := map[string]json.RawMessage{}
	if !isNull(data) {
		if firstByte(data) != '{' {
			return ErrNotObject
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
	}
	if err := setString(doc, StorageMachineIDKey, ids.MachineID); err != nil {
		return err
	}
	if err := setString(doc, StorageDeviceIDKey, ids.DeviceID); err != nil {
		return err
	}
	if err := setString(doc, StorageMacMachineIDKey, ids.MacMachineID); err != nil {
		return err
	}
	return writeDocument(path, doc)
}

func updateState(path string, ids model.IdentitySet) error {
	data, err := readDocument(path)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		data = []byte("{}")
	}
	if firstByte(data) != '{' {
		var raw json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		logging.Warnf("%s does not hold a JSON object; leaving identifiers unset", path)
		return writeDocument(path, raw)
	}

	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if err := setString(doc, StateMachineIDKey, ids.MachineID); err != nil {
		return err
	}
	if err := setString(doc, StateDeviceIDKey, ids.DeviceID); err != nil {
		return err
	}
	if err := setString(doc, StateMacMachineIDKey, ids.MacMachineID); err != nil {
		return err
	}
	return writeDocument(path, doc)
}

// readDocument returns the trimmed file content, or nil when the file does
// not exist.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(data), nil
}

func isNull(data []byte) bool {
	return len(data) == 0 || string(data) == "null"
}

func firstByte(data []byte) byte {
	if len(data) == 0 {
		return 0
	}
	return data[0]
}

func setString(doc map[string]json.RawMessage, key, val string) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	doc[key] = b
	return nil
}

// writeDocument pretty-prints v (sorted keys, two-space indent, no HTML
// escaping) to a temporary file and renames it over path.
func writeDocument(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
