package ethclient

import "slices"

// TransportConfig is the set of endpoints a single connection attempt may dial.
//
// On a first pass Local holds the preferred HTTP endpoint and Hosted is empty.
// On a fallback pass Local is empty and Hosted lists the fallback HTTP endpoints.
type TransportConfig struct {
	Local  string   `json:"local"`
	Hosted []string `json:"hosted"`
	WS     string   `json:"ws"`
	IPC    string   `json:"ipc"`
}

// Connection describes the transports of the pass a Client connected with.
//
// HTTP lists the HTTP endpoints in play: the local endpoint on a first pass,
// the hosted endpoints on a fallback pass. Active is the endpoint that answered
// the probe and carries the calls.
type Connection struct {
	HTTP   []string `json:"http"`
	WS     string   `json:"ws"`
	IPC    string   `json:"ipc"`
	Active string   `json:"active"`
}

// Clone returns a deep copy of c.
func (c *Connection) Clone() *Connection {
	if c == nil {
		return nil
	}
	out := *c
	out.HTTP = slices.Clone(c.HTTP)
	return &out
}

type transportKind int

const (
	kindIPC transportKind = iota
	kindWS
	kindHTTP
)

func (k transportKind) String() string {
	switch k {
	case kindIPC:
		return "ipc"
	case kindWS:
		return "ws"
	default:
		return "http"
	}
}

// candidate is one endpoint Connect may try.
type candidate struct {
	kind     transportKind
	endpoint string
}

// Connection returns the descriptor of a pass made with cfg. Active is left
// empty; Connect fills it with the endpoint that answered.
func (cfg TransportConfig) Connection() *Connection {
	http := []string{}
	if cfg.Local != "" {
		http = append(http, cfg.Local)
	}
	for _, h := range cfg.Hosted {
		if h != "" {
			http = append(http, h)
		}
	}
	return &Connection{HTTP: http, WS: cfg.WS, IPC: cfg.IPC}
}

// candidates lists the configured endpoints in preference order:
// IPC, WebSocket, the local HTTP endpoint, then each hosted HTTP endpoint.
func (cfg TransportConfig) candidates() []candidate {
	var out []candidate
	if cfg.IPC != "" {
		out = append(out, candidate{kindIPC, cfg.IPC})
	}
	if cfg.WS != "" {
		out = append(out, candidate{kindWS, cfg.WS})
	}
	if cfg.Local != "" {
		out = append(out, candidate{kindHTTP, cfg.Local})
	}
	for _, h := range cfg.Hosted {
		if h != "" {
			out = append(out, candidate{kindHTTP, h})
		}
	}
	return out
}
