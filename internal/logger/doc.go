// Package logger wraps zap for the robot binaries.
//
// It keeps a global sugared logger with a console encoder, stores scoped
// loggers in a context (ToContext/FromContext/WithName/WithKV/WithFields)
// and offers context-first helpers such as InfoKV and Warnf.
//
// Hardware drivers that run without a context receive the *zap.SugaredLogger
// directly via FromContext.
package logger
