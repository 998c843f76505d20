// Package shutdown coordinates process termination.
//
// A Handler waits for SIGINT or SIGTERM (or a cancelled context), then
// runs the registered hooks in reverse order under a shared timeout.
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait()
package shutdown
