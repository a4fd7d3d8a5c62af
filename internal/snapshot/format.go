// Package snapshot implements the binary container that make_base writes
// and process_requests/serve read: stops, buses, distances, the map
// renderer's settings and projected stop points, and the transport
// router's precomputed tables, in one self-describing, checksummed
// stream. The format is versioned and private to this codec.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/passbi/transit-catalogue/internal/svgwriter"
)

var magic = [4]byte{'P', 'B', 'T', 'C'}

const currentVersion uint32 = 1

// ErrBadMagic means the stream does not start with the expected magic
// bytes — it is not a snapshot produced by this codec.
var ErrBadMagic = errors.New("snapshot: bad magic")

// ErrVersionMismatch means the stream's schema version does not match
// what this codec can decode.
var ErrVersionMismatch = errors.New("snapshot: version mismatch")

// ErrTruncated means the stream ended before a complete record could be
// read.
var ErrTruncated = errors.New("snapshot: truncated stream")

// ErrChecksumMismatch means the trailing CRC-32 did not match the bytes
// that preceded it.
var ErrChecksumMismatch = errors.New("snapshot: checksum mismatch")

func wrapTruncation(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	return binary.Write(w, binary.BigEndian, v)
}

func writeInt32(w io.Writer, v int32) error {
	return binary.Write(w, binary.BigEndian, v)
}

func writeFloat64(w io.Writer, v float64) error {
	return binary.Write(w, binary.BigEndian, v)
}

func writeByteVal(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeBool(w io.Writer, v bool) error {
	if v {
		return writeByteVal(w, 1)
	}
	return writeByteVal(w, 0)
}

func writeString(w io.Writer, s string) error {
	if err := writeUint32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, wrapTruncation(err)
}

func readInt32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, wrapTruncation(err)
}

func readFloat64(r io.Reader) (float64, error) {
	var v float64
	err := binary.Read(r, binary.BigEndian, &v)
	return v, wrapTruncation(err)
}

func readByteVal(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapTruncation(err)
	}
	return buf[0], nil
}

func readBool(r io.Reader) (bool, error) {
	b, err := readByteVal(r)
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func readString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", wrapTruncation(err)
	}
	return string(buf), nil
}

// writeColor serializes the four-arm Color sum type as a one-byte tag
// followed by the arm's payload.
func writeColor(w io.Writer, c svgwriter.Color) error {
	switch c.Kind {
	case svgwriter.ColorNone:
		return writeByteVal(w, 0)
	case svgwriter.ColorNamed:
		if err := writeByteVal(w, 1); err != nil {
			return err
		}
		return writeString(w, c.Name)
	case svgwriter.ColorRGB:
		if err := writeByteVal(w, 2); err != nil {
			return err
		}
		if _, err := w.Write([]byte{c.R, c.G, c.B}); err != nil {
			return err
		}
		return nil
	case svgwriter.ColorRGBA:
		if err := writeByteVal(w, 3); err != nil {
			return err
		}
		if _, err := w.Write([]byte{c.R, c.G, c.B}); err != nil {
			return err
		}
		return writeFloat64(w, c.A)
	default:
		return fmt.Errorf("snapshot: unknown color kind %d", c.Kind)
	}
}

func readColor(r io.Reader) (svgwriter.Color, error) {
	tag, err := readByteVal(r)
	if err != nil {
		return svgwriter.Color{}, err
	}
	switch tag {
	case 0:
		return svgwriter.None, nil
	case 1:
		name, err := readString(r)
		if err != nil {
			return svgwriter.Color{}, err
		}
		return svgwriter.Named(name), nil
	case 2:
		var buf [3]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return svgwriter.Color{}, wrapTruncation(err)
		}
		return svgwriter.RGB(buf[0], buf[1], buf[2]), nil
	case 3:
		var buf [3]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return svgwriter.Color{}, wrapTruncation(err)
		}
		a, err := readFloat64(r)
		if err != nil {
			return svgwriter.Color{}, err
		}
		return svgwriter.RGBA(buf[0], buf[1], buf[2], a), nil
	default:
		return svgwriter.Color{}, fmt.Errorf("snapshot: unknown color tag %d", tag)
	}
}
