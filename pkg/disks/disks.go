package disks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/executor"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/rs/zerolog"
)

// Query is the PowerShell pipeline that lists disks
const Query = "Get-Disk | Select Number, FriendlyName, SerialNumber, PartitionStyle, Size, BusType | ConvertTo-Json -Depth 4"

// busTypes are the STORAGE_BUS_TYPE names Get-Disk reports when BusType is
// serialized as a number
var busTypes = map[int]string{
	0: "Unknown", 1: "SCSI", 2: "ATAPI", 3: "ATA", 4: "1394", 5: "SSA",
	6: "Fibre Channel", 7: "USB", 8: "RAID", 9: "iSCSI", 10: "SAS",
	11: "SATA", 12: "SD", 13: "MMC", 14: "Virtual", 15: "File Backed Virtual",
	16: "Storage Spaces", 17: "NVMe", 18: "SCM", 19: "UFS",
}

// Enumerator runs the disk query
type Enumerator struct {
	runner  executor.Runner
	shell   executor.Interpreter
	timeout time.Duration
	logger  zerolog.Logger
}

// NewEnumerator creates an Enumerator using the given PowerShell program
func NewEnumerator(runner executor.Runner, powershell string, timeout time.Duration) *Enumerator {
	return &Enumerator{
		runner:  runner,
		shell:   executor.PowerShell(powershell),
		timeout: timeout,
		logger:  logging.GetLogger("disks"),
	}
}

// List returns every disk Get-Disk reports
func (e *Enumerator) List(ctx context.Context) ([]types.Disk, error) {
	res := e.runner.RunScript(ctx, e.shell, Query, executor.Options{Timeout: e.timeout})
	if !res.Succeeded {
		err := errors.New(errors.ErrEnumeration, res.Diagnostic()).
			WithDetail("exit_code", res.ExitCode)
		err.Wrapped = res.Err
		return nil, err
	}

	disks, err := Decode([]byte(res.Stdout))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEnumeration, "Failed to parse disk list: %v\n%s",
			errors.GetMessage(err), strings.TrimSpace(res.Stdout))
	}

	e.logger.Debug().Int("count", len(disks)).Msg("Enumerated disks")
	return disks, nil
}

// rawDisk mirrors the JSON Get-Disk produces
type rawDisk struct {
	Number         *int            `json:"Number"`
	FriendlyName   string          `json:"FriendlyName"`
	SerialNumber   string          `json:"SerialNumber"`
	PartitionStyle json.RawMessage `json:"PartitionStyle"`
	Size           json.Number     `json:"Size"`
	BusType        json.RawMessage `json:"BusType"`
}

// Decode parses ConvertTo-Json output holding one disk object or an array
// of them. Blank output is an empty list.
func Decode(data []byte) ([]types.Disk, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(data) == 0 {
		return []types.Disk{}, nil
	}

	var raws []rawDisk
	switch data[0] {
	case '[':
		if err := decodeJSON(data, &raws); err != nil {
			return nil, errors.Wrap(err, errors.ErrParse, "invalid disk list")
		}
	case '{':
		var one rawDisk
		if err := decodeJSON(data, &one); err != nil {
			return nil, errors.Wrap(err, errors.ErrParse, "invalid disk object")
		}
		raws = []rawDisk{one}
	default:
		return nil, errors.New(errors.ErrParse, "disk query output is not JSON")
	}

	disks := make([]types.Disk, 0, len(raws))
	for i, raw := range raws {
		d, err := raw.toDisk()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrParse, "disk entry %d", i)
		}
		disks = append(disks, d)
	}
	return disks, nil
}

func decodeJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func (r rawDisk) toDisk() (types.Disk, error) {
	if r.Number == nil {
		return types.Disk{}, fmt.Errorf("missing Number")
	}

	var size uint64
	if r.Size != "" {
		n, err := strconv.ParseUint(r.Size.String(), 10, 64)
		if err != nil {
			return types.Disk{}, fmt.Errorf("invalid Size %q", r.Size)
		}
		size = n
	}

	return types.Disk{
		Number:         *r.Number,
		Model:          strings.TrimSpace(r.FriendlyName),
		Serial:         strings.TrimSpace(r.SerialNumber),
		PartitionStyle: partitionStyle(r.PartitionStyle),
		SizeBytes:      size,
		BusType:        busType(r.BusType),
	}, nil
}

// partitionStyle accepts "GPT" or the CIM enum value (1 MBR, 2 GPT)
func partitionStyle(raw json.RawMessage) types.PartitionStyle {
	if s, ok := stringValue(raw); ok {
		return types.ParsePartitionStyle(s)
	}
	if n, ok := intValue(raw); ok {
		switch n {
		case 1:
			return types.StyleMBR
		case 2:
			return types.StyleGPT
		}
	}
	return types.StyleUnknown
}

func busType(raw json.RawMessage) string {
	if s, ok := stringValue(raw); ok {
		return strings.TrimSpace(s)
	}
	if n, ok := intValue(raw); ok {
		if name, known := busTypes[n]; known {
			return name
		}
		return strconv.Itoa(n)
	}
	return ""
}

func stringValue(raw json.RawMessage) (string, bool) {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

func intValue(raw json.RawMessage) (int, bool) {
	var n int
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		return 0, false
	}
	return n, true
}
