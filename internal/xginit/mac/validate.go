package mac

import (
	"strings"

	"xginit/pkg/logger"
)

const (
	allZero      = "00:00:00:00:00:00"
	allBroadcast = "ff:ff:ff:ff:ff:ff"
)

// Validate applies the configured address policy and reports each rejection
// reason as an operator-facing diagnostic. It never fails hard: the caller
// decides what a false return aborts.
//
// An empty prefix disables the policy entirely and accepts every address;
// warnIfUnset controls whether that state is called out (the query path
// suppresses it).
func Validate(prefix string, a Addr, warnIfUnset bool) bool {
	log := logger.WithField("component", "mac-validate")

	if prefix == "" {
		if warnIfUnset {
			log.Warn("no MAC address prefix policy configured, accepting all addresses")
		}
		return true
	}

	formatted, err := Format(a)
	if err != nil {
		log.Error("unable to format MAC address for validation", "error", err)
		return false
	}

	if formatted == allZero {
		log.Error("MAC address is not valid", "mac", formatted, "reason", "all-zero (unset)")
		return false
	}

	if formatted == allBroadcast {
		log.Error("MAC address is not valid", "mac", formatted, "reason", "broadcast address")
		return false
	}

	// Low bit of the first octet marks group (multicast) addresses.
	if a[0]&0x01 != 0 {
		log.Error("MAC address is not valid", "mac", formatted, "reason", "multicast address")
		return false
	}

	if !strings.HasPrefix(formatted, prefix) {
		log.Error("MAC address is not valid", "mac", formatted,
			"reason", "prefix mismatch", "requiredPrefix", prefix)
		return false
	}

	return true
}
