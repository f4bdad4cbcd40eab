// Package dispatcher is the robot's command worker. It blocks on the
// mailbox, decodes each message once into a command.Command and routes it:
// indicator pulse or blink, an outbound publish, or one of the arming setters.
//
// Commands run to completion in mailbox order. When the duration setter
// completes the arming set, the dispatcher frees the message and moves into
// the alarm loop for good.
package dispatcher
