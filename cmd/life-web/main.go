package main

import (
	"encoding/json"
	"flag"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"homeolife/internal/core"
	"homeolife/internal/engine"
)

// hub fans generation frames out to connected websocket clients.
type hub struct {
	mutex    sync.RWMutex
	channels map[int]chan []byte
	nextID   int
}

func newHub() *hub {
	return &hub{channels: make(map[int]chan []byte)}
}

func (h *hub) add(ch chan []byte) int {
	h.mutex.Lock()
	id := h.nextID
	h.nextID++
	h.channels[id] = ch
	h.mutex.Unlock()
	return id
}

func (h *hub) remove(id int) {
	h.mutex.Lock()
	if ch, ok := h.channels[id]; ok {
		close(ch)
		delete(h.channels, id)
	}
	h.mutex.Unlock()
}

func (h *hub) broadcast(msg []byte) {
	h.mutex.RLock()
	for _, ch := range h.channels {
		// Drop frames for clients that cannot keep up; the next frame
		// supersedes this one anyway.
		select {
		case ch <- msg:
		default:
		}
	}
	h.mutex.RUnlock()
}

// frame is one generation on the wire. Cells is base64-encoded by
// encoding/json; the client decodes it back into a flat 0/1 array.
type frame struct {
	Generation int    `json:"generation"`
	Population int    `json:"population"`
	Cells      []byte `json:"cells"`
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>homeolife</title></head>
<body style="background:#111;color:#ddd;font-family:monospace">
<div id="status">connecting…</div>
<canvas id="grid" width="{{.W}}" height="{{.H}}"
        style="width:{{.CW}}px;height:{{.CH}}px;image-rendering:pixelated"></canvas>
<script>
const w = {{.W}}, h = {{.H}};
const canvas = document.getElementById("grid");
const ctx = canvas.getContext("2d");
const img = ctx.createImageData(w, h);
const ws = new WebSocket("ws://{{.Host}}/ws");
ws.onmessage = function (ev) {
    const f = JSON.parse(ev.data);
    const cells = Uint8Array.from(atob(f.cells), c => c.charCodeAt(0));
    for (let i = 0; i < cells.length; i++) {
        const v = cells[i] ? 255 : 0;
        img.data[i*4+0] = v;
        img.data[i*4+1] = v;
        img.data[i*4+2] = v;
        img.data[i*4+3] = 255;
    }
    ctx.putImageData(img, 0, 0);
    document.getElementById("status").textContent =
        "gen " + f.generation + "  pop " + (f.population < 0 ? "--" : f.population);
};
</script>
</body>
</html>`

var (
	indexTemp = template.Must(template.New("index").Parse(indexHTML))
	upgrader  = websocket.Upgrader{}
	clients   = newHub()
	gridSize  core.Size
	scale     int
)

func indexHandle(w http.ResponseWriter, r *http.Request) {
	indexTemp.Execute(w, struct {
		Host   string
		W, H   int
		CW, CH int
	}{
		Host: r.Host,
		W:    gridSize.W, H: gridSize.H,
		CW: gridSize.W * scale, CH: gridSize.H * scale,
	})
}

func wsHandle(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer c.Close()

	ch := make(chan []byte, 1)
	id := clients.add(ch)

	go func() {
		for msg := range ch {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Block until the client goes away.
	if _, _, err := c.ReadMessage(); err != nil {
		clients.remove(id)
	}
}

func main() {
	addr := flag.String("addr", ":3000", "http service address")
	tps := flag.Int("tps", 30, "generations per second")
	width := flag.Int("w", 256, "grid width")
	height := flag.Int("h", 256, "grid height")
	salt := flag.Uint("salt", 0, "coordinate seed salt")
	flag.IntVar(&scale, "scale", 3, "cell scale in the browser")
	flag.Parse()

	cfg := engine.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.Salt = uint32(*salt)

	eng, err := engine.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	gridSize = eng.Size()

	step := core.NewFixedStep(*tps)
	go func() {
		for {
			if !step.ShouldStep() {
				time.Sleep(time.Millisecond)
				continue
			}
			if err := eng.Tick(); err != nil {
				log.Fatal(err)
			}
			if eng.Phase() != engine.PhaseUpdate {
				continue
			}
			js, err := json.Marshal(frame{
				Generation: eng.Generation(),
				Population: eng.Population(),
				Cells:      eng.Snapshot(),
			})
			if err != nil {
				log.Println(err)
				continue
			}
			clients.broadcast(js)
		}
	}()

	http.HandleFunc("/", indexHandle)
	http.HandleFunc("/ws", wsHandle)

	log.Printf("serving homeolife on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal(err)
	}
}
