//go:build !linux && !darwin

package ifreq

const unionSize = 16

var requestCodes = map[Kind]uint{}
