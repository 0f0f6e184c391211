package logging

import (
	"time"

	"go.uber.org/zap"
)

// Common structured fields used across the engine

func Method(m string) zap.Field          { return zap.String("method", m) }
func Path(p string) zap.Field            { return zap.String("path", p) }
func URL(u string) zap.Field             { return zap.String("url", u) }
func Status(code int) zap.Field          { return zap.Int("status", code) }
func Duration(d time.Duration) zap.Field { return zap.Duration("duration", d) }
func Outcome(o string) zap.Field         { return zap.String("outcome", o) }
func Kind(k string) zap.Field            { return zap.String("kind", k) }
