package main

import (
	"encoding/binary"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"github.com/freadblangks/WoWee/internal/anim"
	"github.com/freadblangks/WoWee/internal/m2"
)

// initMessage is the first message sent to a new client: the static
// geometry and the sequence table, as JSON. Vertex positions then stream
// as binary frames.
type initMessage struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	VertexCount int            `json:"vertex_count"`
	Indices     []uint16       `json:"indices"`
	Sequences   []sequenceInfo `json:"sequences"`
}

type sequenceInfo struct {
	Name     string `json:"name"`
	Duration uint32 `json:"duration_ms"`
}

// controlMessage steers the shared playback. Cmd is one of "sequence",
// "speed", "time", "play", "pause"; Value carries the argument where one
// applies.
type controlMessage struct {
	Cmd   string  `json:"cmd"`
	Value float64 `json:"value"`
}

// Viewer owns one shared animation state and streams skinned vertex
// frames to every connected client. All clients watch the same playback;
// a control message from any of them steers it for everyone.
type Viewer struct {
	model *m2.Model
	skin  *m2.Skin

	mu      sync.Mutex // guards state and skinner
	state   *anim.State
	skinner *anim.Skinner

	clientMu sync.RWMutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewViewer creates a viewer for one loaded model.
func NewViewer(model *m2.Model, skin *m2.Skin) *Viewer {
	return &Viewer{
		model:   model,
		skin:    skin,
		state:   anim.NewState(model),
		skinner: anim.NewSkinner(model),
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024 * 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the connection, sends the init message, and
// registers the client for frame broadcasts.
func (v *Viewer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := v.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	// The init message goes out before the client joins the broadcast
	// set, so no frame write can race it on this connection.
	init, err := json.Marshal(v.initMessage())
	if err == nil {
		err = conn.WriteMessage(websocket.TextMessage, init)
	}
	if err != nil {
		log.Printf("Init message error: %v", err)
		conn.Close()
		return
	}

	v.clientMu.Lock()
	v.clients[conn] = true
	total := len(v.clients)
	v.clientMu.Unlock()

	log.Printf("Client connected. Total clients: %d", total)

	go func() {
		defer func() {
			v.clientMu.Lock()
			delete(v.clients, conn)
			total := len(v.clients)
			v.clientMu.Unlock()
			conn.Close()
			log.Printf("Client disconnected. Total clients: %d", total)
		}()

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				break
			}
			if messageType == websocket.TextMessage {
				var ctl controlMessage
				if err := json.Unmarshal(message, &ctl); err != nil {
					log.Printf("Bad control message: %v", err)
					continue
				}
				v.control(ctl)
			}
		}
	}()
}

func (v *Viewer) initMessage() initMessage {
	msg := initMessage{
		Type:        "init",
		Name:        v.model.Name,
		VertexCount: len(v.model.Vertices),
		Indices:     []uint16{},
		Sequences:   []sequenceInfo{},
	}
	if v.skin != nil {
		msg.Indices = v.skin.Indices
	}
	for _, s := range v.model.Sequences {
		msg.Sequences = append(msg.Sequences, sequenceInfo{
			Name:     m2.SequenceName(s.ID),
			Duration: s.Duration,
		})
	}
	return msg
}

func (v *Viewer) control(ctl controlMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch ctl.Cmd {
	case "sequence":
		v.state.SetSequence(int(ctl.Value))
		log.Printf("Control: sequence %d", v.state.Sequence())
	case "speed":
		v.state.SetSpeed(ctl.Value)
		log.Printf("Control: speed %.2f", v.state.Speed())
	case "time":
		v.state.SetTime(ctl.Value)
	case "play":
		v.state.Play()
		log.Printf("Control: play")
	case "pause":
		v.state.Pause()
		log.Printf("Control: pause")
	default:
		log.Printf("Control: unknown command %q", ctl.Cmd)
	}
}

// Run is the frame loop: advance the shared clock, skin the vertex pool,
// and broadcast the result as one binary frame per tick. Blocks forever.
func (v *Viewer) Run(fps int) {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for now := range ticker.C {
		dt := now.Sub(last).Seconds()
		last = now

		if v.ClientCount() == 0 {
			continue
		}

		v.mu.Lock()
		world := v.state.Update(dt)
		positions := v.skinner.Apply(world)
		seq := v.state.Sequence()
		timeMs := v.state.Time()
		v.mu.Unlock()

		v.broadcast(packFrame(seq, timeMs, positions))
	}
}

// packFrame encodes one vertex frame:
// [sequence:u32][time_ms:f32][count:u32] then count x,y,z position floats,
// all little-endian.
func packFrame(seq int, timeMs float64, positions []mgl32.Vec3) []byte {
	buf := make([]byte, 12+len(positions)*12)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(seq))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(timeMs)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(positions)))
	for i, p := range positions {
		o := 12 + i*12
		binary.LittleEndian.PutUint32(buf[o:o+4], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(buf[o+4:o+8], math.Float32bits(p[1]))
		binary.LittleEndian.PutUint32(buf[o+8:o+12], math.Float32bits(p[2]))
	}
	return buf
}

func (v *Viewer) broadcast(message []byte) {
	v.clientMu.RLock()
	clients := make([]*websocket.Conn, 0, len(v.clients))
	for client := range v.clients {
		clients = append(clients, client)
	}
	v.clientMu.RUnlock()

	for _, client := range clients {
		err := client.WriteMessage(websocket.BinaryMessage, message)
		if err != nil {
			log.Printf("Error sending to client: %v", err)
			client.Close()
			v.clientMu.Lock()
			delete(v.clients, client)
			v.clientMu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (v *Viewer) ClientCount() int {
	v.clientMu.RLock()
	defer v.clientMu.RUnlock()
	return len(v.clients)
}
