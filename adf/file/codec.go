package file

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"os"
	"time"

	"github.com/cwbudde/algo-adf/adf/term"
)

// Blob layout, little endian:
//
//	magic "ADF\x00" | version u16 | flags u16
//	terms:   uvarint n, then n × (kind u8, value, datatype, language)
//	         each string is uvarint length + bytes
//	records: uvarint n, then n × (presence u8, uvarint handle per present
//	         slot in S P O G order, varint unix millis if deleted)
//	samples: uvarint points, uvarint channels, points×channels f64
//	crc32 (IEEE) of everything before it, u32
const (
	magic   = "ADF\x00"
	version = 1

	headerSize  = len(magic) + 4
	trailerSize = 4
)

const (
	hasSubject = 1 << iota
	hasPredicate
	hasObject
	hasGraph
	hasDeletion
)

func msTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Serialize encodes the whole file, history included.
func (f *File) Serialize() ([]byte, error) {
	buf := make([]byte, 0, headerSize+16*len(f.log)+8*len(f.samples)+trailerSize)
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint16(buf, version)
	buf = binary.LittleEndian.AppendUint16(buf, 0)

	buf = binary.AppendUvarint(buf, uint64(len(f.terms)-1))
	for _, t := range f.terms[1:] {
		buf = append(buf, byte(t.Kind()))
		buf = appendString(buf, t.Value())
		buf = appendString(buf, t.Datatype())
		buf = appendString(buf, t.Language())
	}

	buf = binary.AppendUvarint(buf, uint64(len(f.log)))
	for _, r := range f.log {
		var presence byte
		for i, h := range r.quad {
			if h != 0 {
				presence |= 1 << i
			}
		}
		if r.hasDeleted {
			presence |= hasDeletion
		}
		buf = append(buf, presence)
		for _, h := range r.quad {
			if h != 0 {
				buf = binary.AppendUvarint(buf, uint64(h))
			}
		}
		if r.hasDeleted {
			buf = binary.AppendVarint(buf, r.deleted)
		}
	}

	buf = binary.AppendUvarint(buf, uint64(f.points))
	buf = binary.AppendUvarint(buf, uint64(f.channels))
	for _, v := range f.samples {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))
	f.logger.Debug("serialized file", "bytes", len(buf), "terms", len(f.terms)-1,
		"records", len(f.log), "points", f.points, "channels", f.channels)
	return buf, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// Deserialize decodes a blob produced by Serialize. An empty blob is an
// empty file.
func Deserialize(blob []byte, opts ...Option) (*File, error) {
	f := New(opts...)
	if len(blob) == 0 {
		return f, nil
	}
	if err := f.decode(blob); err != nil {
		return nil, err
	}
	f.logger.Debug("deserialized file", "bytes", len(blob), "terms", len(f.terms)-1,
		"records", len(f.log), "points", f.points, "channels", f.channels)
	return f, nil
}

func (f *File) decode(blob []byte) error {
	if len(blob) < headerSize+trailerSize || !bytes.HasPrefix(blob, []byte(magic)) {
		return fmt.Errorf("%w: missing header", ErrMalformedBlob)
	}
	body, sum := blob[:len(blob)-trailerSize], blob[len(blob)-trailerSize:]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(sum) {
		return fmt.Errorf("%w: checksum mismatch", ErrMalformedBlob)
	}
	if v := binary.LittleEndian.Uint16(body[len(magic):]); v != version {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedBlob, v)
	}

	r := &reader{buf: body[headerSize:]}

	nTerms := r.count(3)
	for i := 0; i < nTerms && r.err == nil; i++ {
		kind := term.Kind(r.byte())
		value, datatype, lang := r.string(), r.string(), r.string()
		if r.err != nil {
			break
		}
		t, ok := buildTerm(kind, value, datatype, lang)
		if !ok {
			return fmt.Errorf("%w: term %d is invalid", ErrMalformedBlob, i+1)
		}
		if _, dup := f.handles[t]; dup {
			return fmt.Errorf("%w: term %d is a duplicate", ErrMalformedBlob, i+1)
		}
		f.intern(t)
	}

	nRecords := r.count(1)
	for i := 0; i < nRecords && r.err == nil; i++ {
		presence := r.byte()
		const required = hasSubject | hasPredicate | hasObject
		if presence&required != required || presence&^(required|hasGraph|hasDeletion) != 0 {
			return fmt.Errorf("%w: record %d has presence bits %#x", ErrMalformedBlob, i, presence)
		}
		var rec record
		for pos := range rec.quad {
			if presence&(1<<pos) == 0 {
				continue
			}
			h := r.uvarint()
			if h == 0 || h >= uint64(len(f.terms)) {
				if r.err == nil {
					return fmt.Errorf("%w: record %d refers to term %d", ErrMalformedBlob, i, h)
				}
				break
			}
			rec.quad[pos] = uint32(h)
		}
		if presence&hasDeletion != 0 {
			rec.deleted, rec.hasDeleted = r.varint(), true
		}
		if r.err == nil {
			f.append(rec)
		}
	}

	points, channels := r.uvarint(), r.uvarint()
	if r.err != nil {
		return r.err
	}
	if points > math.MaxInt || channels > math.MaxInt {
		return fmt.Errorf("%w: %d × %d samples overflow", ErrMalformedBlob, points, channels)
	}
	if channels != 0 && points > uint64(len(r.buf))/8/channels || points*channels*8 != uint64(len(r.buf)) {
		return fmt.Errorf("%w: %d × %d samples do not fit %d bytes", ErrMalformedBlob, points, channels, len(r.buf))
	}
	f.points, f.channels = int(points), int(channels)
	f.samples = make([]float64, points*channels)
	for i := range f.samples {
		f.samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(r.buf[8*i:]))
	}
	return nil
}

func buildTerm(kind term.Kind, value, datatype, lang string) (term.Term, bool) {
	switch kind {
	case term.KindNamed:
		return term.NamedNode(value), datatype == "" && lang == ""
	case term.KindBlank:
		t := term.BlankNode(value)
		return t, datatype == "" && lang == "" && t.Value() == value
	case term.KindLiteral:
		if lang != "" {
			t := term.LangString(value, lang)
			return t, datatype == term.RDFLangString && t.Language() == lang
		}
		return term.Typed(value, datatype), datatype != ""
	}
	return term.Term{}, false
}

// reader decodes the blob body, remembering the first error.
type reader struct {
	buf []byte
	err error
}

func (r *reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: truncated %s", ErrMalformedBlob, what)
	}
}

func (r *reader) byte() byte {
	if r.err != nil || len(r.buf) == 0 {
		r.fail("byte")
		return 0
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b
}

func (r *reader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf)
	if n <= 0 {
		r.fail("uvarint")
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *reader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.buf)
	if n <= 0 {
		r.fail("varint")
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

// count reads an element count, rejecting values that cannot fit in the
// remaining input when each element takes at least minSize bytes.
func (r *reader) count(minSize int) int {
	n := r.uvarint()
	if r.err == nil && n > uint64(len(r.buf)/minSize) {
		r.err = fmt.Errorf("%w: count %d exceeds input", ErrMalformedBlob, n)
		return 0
	}
	return int(n)
}

func (r *reader) string() string {
	n := r.uvarint()
	if r.err != nil {
		return ""
	}
	if n > uint64(len(r.buf)) {
		r.fail("string")
		return ""
	}
	s := string(r.buf[:n])
	r.buf = r.buf[n:]
	return s
}

// Open reads the file stored at path.
func Open(path string, opts ...Option) (*File, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("file: open %s: %w", path, err)
	}
	f, err := Deserialize(blob, opts...)
	if err != nil {
		return nil, fmt.Errorf("file: open %s: %w", path, err)
	}
	return f, nil
}

// Save writes the file to path, replacing it atomically.
func (f *File) Save(path string) error {
	blob, err := f.Serialize()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("file: save %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file: save %s: %w", path, err)
	}
	return nil
}
