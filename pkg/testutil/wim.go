package testutil

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/arthur-debert/windeploy/pkg/types"
	"golang.org/x/text/encoding/unicode"
)

// BuildWIM returns the bytes of a minimal WIM file: the 208-byte header and
// a UTF-16 XML metadata resource describing entries. It holds no file data
// but is enough for header and metadata readers.
func BuildWIM(entries ...types.ImageEntry) []byte {
	var xml strings.Builder
	xml.WriteString("<WIM>")
	for _, e := range entries {
		fmt.Fprintf(&xml, `<IMAGE INDEX="%d"><TOTALBYTES>%d</TOTALBYTES><NAME>%s</NAME><DESCRIPTION>%s</DESCRIPTION></IMAGE>`,
			e.Index, e.Size, e.Name, e.Description)
	}
	xml.WriteString("</WIM>")

	payload, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(xml.String()))
	if err != nil {
		panic(err)
	}

	const headerSize = 208
	header := make([]byte, headerSize)
	copy(header, "MSWIM\x00\x00\x00")
	le := binary.LittleEndian
	le.PutUint32(header[0x08:], headerSize)
	le.PutUint32(header[0x0C:], 0x10d00)
	le.PutUint16(header[0x28:], 1)
	le.PutUint16(header[0x2A:], 1)
	le.PutUint32(header[0x2C:], uint32(len(entries)))
	le.PutUint64(header[0x48:], uint64(len(payload)))
	le.PutUint64(header[0x50:], headerSize)
	le.PutUint64(header[0x58:], uint64(len(payload)))

	return append(header, payload...)
}

// DISMListing renders entries the way dism /Get-WimInfo prints them
func DISMListing(path string, entries ...types.ImageEntry) string {
	var b strings.Builder
	b.WriteString("\r\nDeployment Image Servicing and Management tool\r\nVersion: 10.0.26100.1\r\n\r\n")
	fmt.Fprintf(&b, "Details for image : %s\r\n\r\n", path)
	for _, e := range entries {
		fmt.Fprintf(&b, "Index : %d\r\nName : %s\r\nDescription : %s\r\nSize : %d bytes\r\n\r\n", e.Index, e.Name, e.Description, e.Size)
	}
	b.WriteString("The operation completed successfully.\r\n")
	return b.String()
}
