package domain

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

type TargetKind int

const (
	HostPortTarget TargetKind = iota + 1
	URLTarget
)

func (k TargetKind) String() string {
	switch k {
	case HostPortTarget:
		return "host_port"
	case URLTarget:
		return "url"
	default:
		return "unknown"
	}
}

// Target is the service being waited on. Host and Port are set for
// HostPortTarget, URL for URLTarget.
type Target struct {
	Kind TargetKind
	Host string
	Port uint16
	URL  string
}

// ParseTarget classifies raw as a URL (http:// or https://) or a host:port pair.
func ParseTarget(raw string) (Target, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		if !isValidHTTPURL(raw) {
			return Target{}, &Error{Kind: InvalidURL, Msg: "Invalid URL format: " + raw}
		}
		return Target{Kind: URLTarget, URL: raw}, nil
	}

	i := strings.LastIndex(raw, ":")
	if i < 0 {
		return Target{}, &Error{Kind: InvalidFormat, Msg: "Target must be in format 'host:port' or 'http(s)://...'"}
	}
	host, portStr := raw[:i], raw[i+1:]

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Target{}, &Error{Kind: InvalidPort, Msg: "Invalid port number: " + portStr}
	}
	if host == "" {
		return Target{}, &Error{Kind: EmptyHost, Msg: "Host cannot be empty"}
	}

	return Target{Kind: HostPortTarget, Host: host, Port: uint16(port)}, nil
}

func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() != ""
}

// LookupHost is the host with IPv6 brackets removed, suitable for a resolver.
func (t Target) LookupHost() string {
	return strings.TrimSuffix(strings.TrimPrefix(t.Host, "["), "]")
}

// Dial returns the address to connect to for the given resolved IP.
func (t Target) Dial(ip string) string {
	return net.JoinHostPort(ip, strconv.Itoa(int(t.Port)))
}

func (t Target) String() string {
	if t.Kind == URLTarget {
		return t.URL
	}
	return t.Host + ":" + strconv.Itoa(int(t.Port))
}
