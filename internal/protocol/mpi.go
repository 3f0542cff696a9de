package protocol

import "math/big"

// ReadMPI reads a DATA field holding a non-negative big-endian integer.
//
// Only the first leading zero byte is stripped. Peers that pad with more
// zeros are still accepted, and the value is unchanged either way.
func (d *Decoder) ReadMPI() (*big.Int, error) {
	return d.readMPI("mpi")
}

func (d *Decoder) readMPI(field string) (*big.Int, error) {
	b, err := d.readData(field)
	if err != nil {
		return nil, err
	}
	return mpiFromBytes(b), nil
}

func mpiFromBytes(b []byte) *big.Int {
	if len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return new(big.Int).SetBytes(b)
}
