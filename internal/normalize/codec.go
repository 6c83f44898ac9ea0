package normalize

import (
	"bufio"
	"encoding/binary"

	"github.com/benmichell/psxdmh/internal/errs"
	"github.com/benmichell/psxdmh/internal/sample"
)

// encodeSample and decodeSample are the spill file's wire format: the
// raw float64 channel values of whichever concrete sample type the
// normalizer was instantiated for. Only Mono and Stereo are supported;
// any other instantiation is an internal programming error.
func encodeSample[S sample.Sample[S]](w *bufio.Writer, s S) error {
	switch v := any(s).(type) {
	case sample.Mono:
		return binary.Write(w, binary.LittleEndian, float64(v))
	case sample.Stereo:
		if err := binary.Write(w, binary.LittleEndian, v.L); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, v.R)
	default:
		return errs.Invariant("normalize: unsupported sample type %T", v)
	}
}

func decodeSample[S sample.Sample[S]](r *bufio.Reader) (S, error) {
	var s S
	switch p := any(&s).(type) {
	case *sample.Mono:
		var v float64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return s, err
		}
		*p = sample.Mono(v)
	case *sample.Stereo:
		var l, rr float64
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return s, err
		}
		if err := binary.Read(r, binary.LittleEndian, &rr); err != nil {
			return s, err
		}
		*p = sample.Stereo{L: l, R: rr}
	default:
		return s, errs.Invariant("normalize: unsupported sample type %T", p)
	}
	return s, nil
}
