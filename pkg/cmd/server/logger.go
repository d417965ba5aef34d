package server

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nsyszr/rcm/config"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets up the global logger from c.
func ConfigureLogging(c *config.Config) error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	switch c.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}
	return nil
}

// logger returns a middleware that logs HTTP requests.
func logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}
			stop := time.Now()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}
			reqSize, perr := strconv.ParseInt(req.Header.Get(echo.HeaderContentLength), 10, 64)
			if perr != nil {
				reqSize = 0
			}
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}

			entry := log.WithFields(log.Fields{
				"id":            id,
				"remote_ip":     c.RealIP(),
				"host":          req.Host,
				"method":        req.Method,
				"uri":           req.RequestURI,
				"route":         c.Path(),
				"protocol":      req.Proto,
				"user_agent":    req.UserAgent(),
				"status":        res.Status,
				"status_text":   http.StatusText(res.Status),
				"referer":       req.Referer(),
				"error":         errMsg,
				"bytes_in":      reqSize,
				"bytes_out":     res.Size,
				"latency":       stop.Sub(start).Nanoseconds(),
				"latency_human": stop.Sub(start).String(),
			})

			msg := req.Method + " " + req.RequestURI + " " + req.Proto + " " +
				strconv.Itoa(res.Status) + " " + strconv.FormatInt(res.Size, 10)
			switch {
			case res.Status >= http.StatusInternalServerError:
				entry.Error(msg)
			case res.Status >= http.StatusBadRequest:
				entry.Warn(msg)
			default:
				entry.Info(msg)
			}

			return err
		}
	}
}
