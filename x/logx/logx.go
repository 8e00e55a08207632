// Package logx is a small leveled logger for firmware builds.
//
// Lines look like "[module] WRN message key=value". Formatting avoids fmt so the
// package stays cheap on TinyGo; integers go through x/conv into a stack buffer.
package logx

import (
	"io"
	"sync"

	"ledtoggle-go/x/conv"
)

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

func (l Level) tag() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	default:
		return "???"
	}
}

type fieldKind uint8

const (
	kindInt fieldKind = iota
	kindUint
	kindByte
	kindStr
)

// Field is one key=value pair appended to a log line.
type Field struct {
	key  string
	kind fieldKind
	i    int64
	u    uint64
	s    string
}

func Int(key string, v int) Field       { return Field{key: key, kind: kindInt, i: int64(v)} }
func Uint32(key string, v uint32) Field { return Field{key: key, kind: kindUint, u: uint64(v)} }
func Byte(key string, v byte) Field     { return Field{key: key, kind: kindByte, u: uint64(v)} }
func Str(key, v string) Field           { return Field{key: key, kind: kindStr, s: v} }

// Err renders err.Error(), or "<nil>".
func Err(err error) Field {
	if err == nil {
		return Str("err", "<nil>")
	}
	return Str("err", err.Error())
}

// console writes through the print builtin: stderr on host, the default
// console (USB CDC or UART) on TinyGo.
type console struct{}

func (console) Write(p []byte) (int, error) {
	print(string(p))
	return len(p), nil
}

// Console is the default sink.
var Console io.Writer = console{}

const lineMax = 160

type Logger struct {
	mu     sync.Mutex
	module string
	level  Level
	out    io.Writer
}

func New(module string, level Level) *Logger {
	return &Logger{module: module, level: level, out: Console}
}

// SetOutput redirects the logger; a nil writer restores Console.
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = Console
	}
	l.mu.Lock()
	l.out = w
	l.mu.Unlock()
}

func (l *Logger) SetLevel(lv Level) {
	l.mu.Lock()
	l.level = lv
	l.mu.Unlock()
}

func (l *Logger) Enabled(lv Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lv >= l.level && lv < LevelOff
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *Logger) log(lv Level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lv < l.level || lv >= LevelOff {
		return
	}
	var arr [lineMax]byte
	b := arr[:0]
	b = append(b, '[')
	b = append(b, l.module...)
	b = append(b, "] "...)
	b = append(b, lv.tag()...)
	b = append(b, ' ')
	b = append(b, msg...)
	var num [24]byte
	for _, f := range fields {
		b = append(b, ' ')
		b = append(b, f.key...)
		b = append(b, '=')
		switch f.kind {
		case kindInt:
			b = append(b, conv.Itoa(num[:], f.i)...)
		case kindUint:
			b = append(b, conv.Utoa(num[:], f.u)...)
		case kindByte:
			b = append(b, conv.ByteHex(num[:], byte(f.u))...)
		case kindStr:
			b = append(b, f.s...)
		}
	}
	if len(b) > lineMax-1 {
		b = b[:lineMax-1]
	}
	b = append(b, '\n')
	_, _ = l.out.Write(b)
}
