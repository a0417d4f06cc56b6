package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/sim"
)

type ParticleMsg struct {
	Pos    [3]float64 `json:"pos"`
	Color  [3]uint8   `json:"color"`
	Radius float64    `json:"radius"`
}

// FrameMsg is the wire form of one frame.
type FrameMsg struct {
	Tick              int           `json:"tick"`
	CylinderRadius    float64       `json:"cylinder_radius"`
	CylinderHeight    float64       `json:"cylinder_height"`
	OuterSphereRadius float64       `json:"outer_sphere_radius"`
	Particles         []ParticleMsg `json:"particles"`
}

func NewFrameMsg(f physics.Frame, c geometry.Containment) FrameMsg {
	msg := FrameMsg{
		Tick:              f.Tick,
		CylinderRadius:    c.CylinderRadius,
		CylinderHeight:    c.CylinderHeight,
		OuterSphereRadius: c.OuterSphereRadius(),
		Particles:         make([]ParticleMsg, len(f.Particles)),
	}
	for i, p := range f.Particles {
		msg.Particles[i] = ParticleMsg{
			Pos:    [3]float64(p.Position),
			Color:  [3]uint8{p.Color.R, p.Color.G, p.Color.B},
			Radius: p.Radius,
		}
	}
	return msg
}

type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewServer(hub *Hub) *Server {
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Handler serves the stream on /ws and a plain status line on /.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "cylsim stream: %d clients\n", s.hub.Len())
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Print(r.RemoteAddr + " " + r.Method + " " + r.URL.String())
		mux.ServeHTTP(w, r)
	})
}

func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		var hs websocket.HandshakeError
		if !errors.As(err, &hs) {
			log.Println(err)
		}
		return
	}
	c := s.hub.register(conn)
	go s.hub.writePump(c)
	go s.hub.readPump(c)
}

// Broadcast encodes the frame once and queues it for every client.
func (s *Server) Broadcast(f physics.Frame, c geometry.Containment) error {
	data, err := json.Marshal(NewFrameMsg(f, c))
	if err != nil {
		return err
	}
	if dropped := s.hub.Broadcast(data); dropped > 0 {
		log.Printf("stream: dropped %d slow clients at tick %d", dropped, f.Tick)
	}
	return nil
}

// Run drives the simulator at fps frames per second and broadcasts every
// frame until ctx is done or cfg.Ticks is reached.
func (s *Server) Run(ctx context.Context, simulator *sim.Simulator, cfg sim.Config, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", sim.ErrInvalidConfig, fps)
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	c := simulator.System().Containment()
	var sendErr error
	err := simulator.RunWithCallback(ctx, cfg, func(f physics.Frame, _ physics.Hits) bool {
		if sendErr = s.Broadcast(f, c); sendErr != nil {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			return true
		}
	})
	if sendErr != nil {
		return sendErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// ListenAndServe serves handler on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
