package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/model"
	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Web apps on any origin drive the agent from the browser.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// --- WebSocket Listener Logic ---

// Server is the control channel: it accepts WebSocket clients and hands each
// print message to the Forwarder on its own goroutine.
type Server struct {
	config      model.Config
	appName     string
	version     string
	forwarder   *Forwarder
	logger      zerolog.Logger
	router      *gin.Engine
	httpServer  *http.Server
	started     time.Time
	connections atomic.Int64

	// DefaultPrinterPort is used when a message names no valid port.
	DefaultPrinterPort int
}

func NewServer(ctx context.Context, config model.Config, forwarder *Forwarder, logger zerolog.Logger) *Server {
	appName, _ := ctx.Value(model.ContextAppName).(string)
	version, _ := ctx.Value(model.ContextAppVersion).(string)

	s := &Server{
		config:             config,
		appName:            appName,
		version:            version,
		forwarder:          forwarder,
		logger:             logger,
		started:            time.Now(),
		DefaultPrinterPort: model.DefaultPrinterPort,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.GET("/healthz", s.handleHealth)
	router.GET("/", s.handleWebSocket)
	// Older clients connect on arbitrary paths.
	router.NoRoute(s.handleWebSocket)
	s.router = router

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Connections() int64 {
	return s.connections.Load()
}

// Listen binds the control channel address. A port already in use is
// reported as ErrAddressInUse.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("%w: port %d", ErrAddressInUse, s.config.Port)
		}
		return nil, fmt.Errorf("could not start websocket server: %w", err)
	}
	return ln, nil
}

// Serve blocks until the listener fails or Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting new connections. In-flight print jobs are not
// waited for.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"app":           s.appName,
		"version":       s.version,
		"connections":   s.Connections(),
		"uptimeSeconds": int64(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Debug().Err(err).Str("remote", c.Request.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	sess := &session{conn: conn, remote: c.Request.RemoteAddr}
	s.connections.Add(1)
	defer func() {
		s.connections.Add(-1)
		conn.Close()
	}()

	s.logger.Info().Str("remote", sess.remote).Msg("client connected")
	// Jobs keep running after the client hangs up; only their timeout stops them.
	s.readLoop(context.WithoutCancel(c.Request.Context()), sess)
}

func (s *Server) readLoop(ctx context.Context, sess *session) {
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.logger.Info().Str("remote", sess.remote).Msg("client disconnected")
			} else {
				s.logger.Warn().Err(err).Str("remote", sess.remote).Msg("websocket error")
			}
			return
		}
		s.handleMessage(ctx, sess, data)
	}
}

// handleMessage answers malformed messages immediately. Valid ones are
// forwarded on their own goroutine so a stuck printer never blocks the
// connection.
func (s *Server) handleMessage(ctx context.Context, sess *session, data []byte) {
	req, err := s.parseRequest(sess, data)
	if err != nil {
		s.logger.Warn().Err(err).Str("remote", sess.remote).Msg("rejected message")
		s.reply(sess, model.Failure(err.Error()))
		return
	}

	go func() {
		s.reply(sess, s.forwarder.Forward(ctx, req))
	}()
}

func (s *Server) parseRequest(sess *session, data []byte) (model.PrintRequest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.PrintRequest{}, ErrInvalidPayload
	}
	msg, err := decodePrintMessage(trimmed)
	if err != nil {
		s.logger.Debug().Err(err).Str("remote", sess.remote).Msg("json decode failed")
		return model.PrintRequest{}, ErrInvalidPayload
	}

	if msg.IP == "" || msg.Data == "" {
		return model.PrintRequest{}, ErrMissingData
	}

	payload, lossy, err := utils.EncodePayload(msg.Data, msg.Encoding)
	if err != nil {
		s.logger.Debug().Err(err).Str("remote", sess.remote).Msg("payload decode failed")
		return model.PrintRequest{}, ErrInvalidPayload
	}
	if lossy > 0 {
		s.logger.Warn().
			Str("remote", sess.remote).
			Int("characters", lossy).
			Msg("payload has characters above U+00FF, sending low byte only")
	}

	return model.PrintRequest{
		Address: msg.IP,
		Port:    s.resolvePrinterPort(msg),
		Payload: payload,
	}, nil
}

// decodePrintMessage reads the known keys by exact name. encoding/json would
// fold case when decoding into a struct, letting "PORT" override "port".
func decodePrintMessage(data []byte) (model.PrintMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return model.PrintMessage{}, err
	}

	var msg model.PrintMessage
	if err := decodeString(fields[model.KeyIP], &msg.IP); err != nil {
		return model.PrintMessage{}, fmt.Errorf("%s: %w", model.KeyIP, err)
	}
	if err := decodeString(fields[model.KeyData], &msg.Data); err != nil {
		return model.PrintMessage{}, fmt.Errorf("%s: %w", model.KeyData, err)
	}
	var encoding string
	if err := decodeString(fields[model.KeyEncoding], &encoding); err != nil {
		return model.PrintMessage{}, fmt.Errorf("%s: %w", model.KeyEncoding, err)
	}
	msg.Encoding = model.PayloadEncoding(encoding)
	msg.Port = fields[model.KeyPort]
	msg.PrinterPort = fields[model.KeyPrinterPort]
	msg.Puerto = fields[model.KeyPuerto]
	return msg, nil
}

func decodeString(raw json.RawMessage, dst *string) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// resolvePrinterPort applies port > printerPort > puerto > default, skipping
// any candidate that is not a valid TCP port.
func (s *Server) resolvePrinterPort(msg model.PrintMessage) int {
	fallback := s.DefaultPrinterPort
	if fallback == 0 {
		fallback = model.DefaultPrinterPort
	}
	return utils.FirstValidPort(fallback, msg.Port, msg.PrinterPort, msg.Puerto)
}

func (s *Server) reply(sess *session, out model.Outcome) {
	if err := sess.send(out.Response()); err != nil {
		s.logger.Warn().Err(err).Str("remote", sess.remote).Msg("failed to send response")
	}
}

// session serializes writes; forwarding goroutines reply concurrently.
type session struct {
	conn   *websocket.Conn
	remote string
	mu     sync.Mutex
}

func (c *session) send(resp model.Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(resp)
}
