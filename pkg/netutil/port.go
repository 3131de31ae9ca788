package netutil

import (
	"net"
)

// GetAvailablePortForAddress returns a port that's currently free on the
// address
func GetAvailablePortForAddress(address string) (int32, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort(address, "0"))
	if err != nil {
		return 0, err
	}
	defer listener.Close()

	return int32(listener.Addr().(*net.TCPAddr).Port), nil
}
