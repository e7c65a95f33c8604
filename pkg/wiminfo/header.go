package wiminfo

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/beevik/etree"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
)

// HeaderSize is the size of the on-disk WIM header
const HeaderSize = 208

// maxXMLSize bounds the metadata resource we are willing to read
const maxXMLSize = 64 << 20

// Magic starts every WIM and ESD file
var Magic = [8]byte{'M', 'S', 'W', 'I', 'M', 0, 0, 0}

// Resource locates a resource inside the image file
type Resource struct {
	// Size is the stored size; only the low 56 bits of the field
	Size         uint64
	Flags        byte
	Offset       int64
	OriginalSize int64
}

// Resource flags
const (
	ResourceMetadata   byte = 0x02
	ResourceCompressed byte = 0x04
)

// Header is the fixed header of a WIM file
type Header struct {
	Version    uint32
	Flags      uint32
	PartNumber uint16
	TotalParts uint16
	ImageCount uint32
	BootIndex  uint32
	XML        Resource
}

// ReadHeader decodes the header at the start of r
func ReadHeader(r io.ReaderAt) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return Header{}, errors.Wrap(err, errors.ErrParse, "failed to read WIM header")
	}
	if !bytes.Equal(buf[:8], Magic[:]) {
		return Header{}, errors.New(errors.ErrParse, "not a WIM image")
	}

	le := binary.LittleEndian
	h := Header{
		Version:    le.Uint32(buf[0x0C:]),
		Flags:      le.Uint32(buf[0x10:]),
		PartNumber: le.Uint16(buf[0x28:]),
		TotalParts: le.Uint16(buf[0x2A:]),
		ImageCount: le.Uint32(buf[0x2C:]),
		XML:        readResource(buf[0x48:]),
		BootIndex:  le.Uint32(buf[0x78:]),
	}
	return h, nil
}

func readResource(b []byte) Resource {
	le := binary.LittleEndian
	sizeAndFlags := le.Uint64(b[0:])
	return Resource{
		Size:         sizeAndFlags & 0x00FFFFFFFFFFFFFF,
		Flags:        byte(sizeAndFlags >> 56),
		Offset:       int64(le.Uint64(b[8:])),
		OriginalSize: int64(le.Uint64(b[16:])),
	}
}

// ReadXML returns the decoded XML metadata document
func ReadXML(r io.ReaderAt, h Header) (string, error) {
	res := h.XML
	if res.Flags&ResourceCompressed != 0 {
		return "", errors.New(errors.ErrParse, "compressed XML metadata is not supported")
	}
	if res.Size == 0 || res.Offset < HeaderSize {
		return "", errors.New(errors.ErrParse, "image has no XML metadata")
	}
	if res.Size > maxXMLSize {
		return "", errors.Newf(errors.ErrParse, "XML metadata too large (%d bytes)", res.Size)
	}

	raw := make([]byte, res.Size)
	if _, err := r.ReadAt(raw, res.Offset); err != nil {
		return "", errors.Wrap(err, errors.ErrParse, "failed to read XML metadata")
	}

	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrParse, "failed to decode XML metadata")
	}
	return strings.TrimRight(string(decoded), "\x00"), nil
}

// ParseXML extracts the editions from a WIM XML metadata document,
// ordered by index
func ParseXML(doc string) ([]types.ImageEntry, error) {
	d := etree.NewDocument()
	if err := d.ReadFromString(doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrParse, "invalid XML metadata")
	}

	root := d.SelectElement("WIM")
	if root == nil {
		return nil, errors.New(errors.ErrParse, "XML metadata has no WIM element")
	}

	var entries []types.ImageEntry
	for _, img := range root.SelectElements("IMAGE") {
		index, err := strconv.Atoi(img.SelectAttrValue("INDEX", ""))
		if err != nil || index <= 0 {
			continue
		}

		entry := types.ImageEntry{
			Index:       index,
			Name:        childText(img, "NAME"),
			Description: childText(img, "DESCRIPTION"),
		}
		if entry.Name == "" {
			entry.Name = childText(img, "DISPLAYNAME")
		}
		if size, err := strconv.ParseUint(childText(img, "TOTALBYTES"), 10, 64); err == nil {
			entry.Size = size
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	return entries, nil
}

func childText(e *etree.Element, tag string) string {
	if c := e.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// ReadEntries reads the editions of the image file at path from its XML
// metadata
func ReadEntries(fs afero.Fs, path string) ([]types.ImageEntry, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPrecondition, "cannot open image file %s", path)
	}
	defer func() { _ = f.Close() }()

	h, err := ReadHeader(f)
	if err != nil {
		return nil, err
	}
	if h.TotalParts > 1 {
		return nil, errors.Newf(errors.ErrParse, "split image part %d of %d", h.PartNumber, h.TotalParts)
	}

	doc, err := ReadXML(f, h)
	if err != nil {
		return nil, err
	}

	entries, err := ParseXML(doc)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrParse, MsgNoImages)
	}
	return entries, nil
}
