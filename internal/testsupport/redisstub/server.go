// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package redisstub is a minimal RESP2 server for tests of Redis-backed stores.
//
// It understands PING, SELECT, SET (with EX/PX), GET, EXISTS and DEL. Any other
// command, including the HELLO and CLIENT handshake sent by go-redis, receives
// an error reply and the connection stays open.
package redisstub

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Server is a running stub bound to a loopback port.
type Server struct {
	listener net.Listener
	addr     string
	mu       sync.Mutex
	kv       map[string]entry
	closed   chan struct{}
	now      func() time.Time
}

type entry struct {
	value  string
	expiry time.Time
}

// Start listens on a random loopback port and serves until Close.
func Start() (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	server := &Server{
		listener: ln,
		addr:     ln.Addr().String(),
		kv:       make(map[string]entry),
		closed:   make(chan struct{}),
		now:      time.Now,
	}
	go server.serve()
	return server, nil
}

// Addr returns host:port of the listener.
func (s *Server) Addr() string {
	return s.addr
}

// TTL returns the remaining lifetime of key, or zero when absent or persistent.
func (s *Server) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.liveLocked(key)
	if !ok || e.expiry.IsZero() {
		return 0
	}
	return e.expiry.Sub(s.now())
}

// Close stops the listener. It is safe to call more than once.
func (s *Server) Close() error {
	s.mu.Lock()
	select {
	case <-s.closed:
		s.mu.Unlock()
		return nil
	default:
	}
	close(s.closed)
	s.mu.Unlock()
	return s.listener.Close()
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closed:
				return
			default:
			}
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)
	for {
		args, err := readArray(reader)
		if err != nil {
			return
		}
		if len(args) == 0 {
			if err := writeError(writer, "ERR wrong number of arguments"); err != nil {
				return
			}
			continue
		}
		if err := s.dispatch(writer, args); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(writer *bufio.Writer, args []string) error {
	switch strings.ToUpper(args[0]) {
	case "PING":
		return writeSimpleString(writer, "PONG")
	case "SELECT":
		return writeSimpleString(writer, "OK")
	case "SET":
		return s.handleSet(writer, args)
	case "GET":
		if len(args) != 2 {
			return writeError(writer, "ERR wrong number of arguments for 'get'")
		}
		s.mu.Lock()
		e, ok := s.liveLocked(args[1])
		s.mu.Unlock()
		if !ok {
			return writeBulkNil(writer)
		}
		return writeBulkString(writer, e.value)
	case "EXISTS":
		s.mu.Lock()
		var count int64
		for _, key := range args[1:] {
			if _, ok := s.liveLocked(key); ok {
				count++
			}
		}
		s.mu.Unlock()
		return writeInteger(writer, count)
	case "DEL":
		s.mu.Lock()
		var count int64
		for _, key := range args[1:] {
			if _, ok := s.liveLocked(key); ok {
				delete(s.kv, key)
				count++
			}
		}
		s.mu.Unlock()
		return writeInteger(writer, count)
	default:
		return writeError(writer, fmt.Sprintf("ERR unknown command '%s'", args[0]))
	}
}

func (s *Server) handleSet(writer *bufio.Writer, args []string) error {
	if len(args) < 3 {
		return writeError(writer, "ERR wrong number of arguments for 'set'")
	}

	e := entry{value: args[2]}
	for i := 3; i < len(args); i++ {
		option := strings.ToUpper(args[i])
		if option != "EX" && option != "PX" {
			continue
		}
		if i+1 >= len(args) {
			return writeError(writer, "ERR syntax error")
		}
		amount, err := strconv.ParseInt(args[i+1], 10, 64)
		if err != nil || amount <= 0 {
			return writeError(writer, "ERR invalid expire time in 'set' command")
		}
		unit := time.Second
		if option == "PX" {
			unit = time.Millisecond
		}
		e.expiry = s.now().Add(time.Duration(amount) * unit)
		i++
	}

	s.mu.Lock()
	s.kv[args[1]] = e
	s.mu.Unlock()
	return writeSimpleString(writer, "OK")
}

// liveLocked returns the entry for key, evicting it if expired.
func (s *Server) liveLocked(key string) (entry, bool) {
	e, ok := s.kv[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiry.IsZero() && !s.now().Before(e.expiry) {
		delete(s.kv, key)
		return entry{}, false
	}
	return e, true
}

// # RESP codec

func readArray(r *bufio.Reader) ([]string, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if prefix != '*' {
		return nil, fmt.Errorf("unexpected prefix %q", prefix)
	}
	length, err := readLength(r)
	if err != nil {
		return nil, err
	}
	args := make([]string, 0, max(length, 0))
	for range length {
		arg, err := readBulkString(r)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func readLength(r *bufio.Reader) (int, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, err
	}
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	return strconv.Atoi(line)
}

func readBulkString(r *bufio.Reader) (string, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	if prefix != '$' {
		return "", fmt.Errorf("unexpected prefix %q", prefix)
	}
	length, err := readLength(r)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", nil
	}
	buf := make([]byte, length+2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf[:length]), nil
}

func writeSimpleString(w *bufio.Writer, value string) error {
	if _, err := fmt.Fprintf(w, "+%s\r\n", value); err != nil {
		return err
	}
	return w.Flush()
}

func writeBulkString(w *bufio.Writer, value string) error {
	if _, err := fmt.Fprintf(w, "$%d\r\n%s\r\n", len(value), value); err != nil {
		return err
	}
	return w.Flush()
}

func writeBulkNil(w *bufio.Writer) error {
	if _, err := w.WriteString("$-1\r\n"); err != nil {
		return err
	}
	return w.Flush()
}

func writeInteger(w *bufio.Writer, value int64) error {
	if _, err := fmt.Fprintf(w, ":%d\r\n", value); err != nil {
		return err
	}
	return w.Flush()
}

func writeError(w *bufio.Writer, msg string) error {
	if _, err := fmt.Fprintf(w, "-%s\r\n", msg); err != nil {
		return err
	}
	return w.Flush()
}
