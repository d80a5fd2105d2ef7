package mdio

import (
	"strconv"
	"strings"

	"xginit/pkg/logger"
)

// Operation is one configured PHY register write: port and device address
// the PHY on the bus, register and value are the 16-bit payload. Operations
// execute in configuration order since later writes may depend on earlier
// ones having taken effect.
type Operation struct {
	Port     uint8
	Device   uint8
	Register uint16
	Value    uint16
}

// ParseOperations parses a whitespace-separated sequence of
// <port>.<device>:<reg>=<value> tokens, port and device in decimal,
// reg and value in hex.
//
// Parsing stops silently at the first token that does not match; the
// remainder of the string is dropped, not reported. Existing board configs
// rely on this leniency, so it is kept as observable behavior.
func ParseOperations(s string) []Operation {
	var ops []Operation

	fields := strings.Fields(s)
	for i, field := range fields {
		op, ok := parseToken(field)
		if !ok {
			if rest := strings.Join(fields[i:], " "); rest != "" {
				logger.WithField("component", "mdio").Debug(
					"stopping at unparsable MDIO write token", "dropped", rest)
			}
			break
		}
		ops = append(ops, op)
	}

	return ops
}

func parseToken(tok string) (Operation, bool) {
	portPart, rest, ok := strings.Cut(tok, ".")
	if !ok {
		return Operation{}, false
	}
	devPart, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return Operation{}, false
	}
	regPart, valPart, ok := strings.Cut(rest, "=")
	if !ok {
		return Operation{}, false
	}

	port, err := strconv.ParseUint(portPart, 10, 8)
	if err != nil {
		return Operation{}, false
	}
	dev, err := strconv.ParseUint(devPart, 10, 8)
	if err != nil {
		return Operation{}, false
	}
	reg, err := strconv.ParseUint(regPart, 16, 16)
	if err != nil {
		return Operation{}, false
	}
	val, err := strconv.ParseUint(valPart, 16, 16)
	if err != nil {
		return Operation{}, false
	}

	return Operation{
		Port:     uint8(port),
		Device:   uint8(dev),
		Register: uint16(reg),
		Value:    uint16(val),
	}, true
}
