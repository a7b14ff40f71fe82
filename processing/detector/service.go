package processing

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"livedetect/internal/config"
	"livedetect/internal/models"
)

// ErrModelLoad is returned by Provider.Load when the model never became
// available.
var ErrModelLoad = errors.New("model load failed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Model runs inference on a single frame.
type Model interface {
	Detect(ctx context.Context, frame image.Image) ([]models.Detection, error)
}

// Provider loads a Model once at startup.
type Provider interface {
	Load(ctx context.Context) (Model, error)
}

const jpegQuality = 85

// RemoteProvider reaches a detection server over a websocket: one binary JPEG
// frame out, one JSON array of detections back.
type RemoteProvider struct {
	serverURL string

	maxAttempts      uint
	retryDelay       time.Duration
	handshakeTimeout time.Duration
	writeTimeout     time.Duration

	log logrus.FieldLogger
}

func NewRemoteProvider(cfg config.DetectorConfig, log logrus.FieldLogger) *RemoteProvider {
	u := url.URL{Scheme: "ws", Host: cfg.Host, Path: "/ws"}

	return &RemoteProvider{
		serverURL:        u.String(),
		maxAttempts:      cfg.MaxAttempts,
		retryDelay:       cfg.RetryDelay(),
		handshakeTimeout: cfg.HandshakeTimeout(),
		writeTimeout:     cfg.WriteTimeout(),
		log:              log,
	}
}

func (p *RemoteProvider) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: p.handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, p.serverURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", p.serverURL)
	}
	return conn, nil
}

// Load retries until connected, ctx ends, or maxAttempts (0 = unlimited) is
// used up.
func (p *RemoteProvider) Load(ctx context.Context) (Model, error) {
	for attempt := uint(1); ; attempt++ {
		p.log.WithField("url", p.serverURL).Info("connecting to detector server")

		conn, err := p.dial(ctx)
		if err == nil {
			p.log.Info("connected to detector server")
			return &RemoteModel{
				conn:         conn,
				redial:       p.dial,
				writeTimeout: p.writeTimeout,
				log:          p.log,
			}, nil
		}

		if ctx.Err() != nil {
			return nil, errors.Wrap(ErrModelLoad, ctx.Err().Error())
		}
		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			return nil, errors.Wrapf(ErrModelLoad, "%d attempts, last error: %v", attempt, err)
		}

		p.log.WithError(err).WithField("retry_in", p.retryDelay).Warn("connection failed")

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ErrModelLoad, ctx.Err().Error())
		case <-time.After(p.retryDelay):
		}
	}
}

// RemoteModel keeps one request in flight. A broken connection is dropped
// and dialled again on the next call.
type RemoteModel struct {
	mu   sync.Mutex
	conn *websocket.Conn

	redial       func(context.Context) (*websocket.Conn, error)
	writeTimeout time.Duration

	log logrus.FieldLogger
}

func (m *RemoteModel) Detect(ctx context.Context, frame image.Image) ([]models.Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		conn, err := m.redial(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "reconnect")
		}
		m.log.Info("reconnected to detector server")
		m.conn = conn
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.Wrap(err, "encode frame")
	}

	m.conn.SetWriteDeadline(time.Now().Add(m.writeTimeout))
	if err := m.conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
		m.dropLocked()
		return nil, errors.Wrap(err, "send frame")
	}

	// unblock the read when ctx ends; the callback may run after conn is
	// dropped, so it must not touch m.conn
	conn := m.conn
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	_, message, err := conn.ReadMessage()
	if !stop() {
		m.dropLocked()
		return nil, ctx.Err()
	}
	if err != nil {
		m.dropLocked()
		return nil, errors.Wrap(err, "read detections")
	}

	var results []models.Detection
	if err := json.Unmarshal(message, &results); err != nil {
		return nil, errors.Wrap(err, "decode detections")
	}

	return results, nil
}

func (m *RemoteModel) dropLocked() {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}

func (m *RemoteModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}

	err := m.conn.Close()
	m.conn = nil
	return err
}
