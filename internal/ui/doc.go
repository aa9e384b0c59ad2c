// Package ui contains the Bubble Tea program that mirrors the device console.
//
// Message flow:
//   - A tick message drains whatever the device has sent into the emulated
//     screen and schedules the next tick. Draining happens inside Update, so
//     the screen is only ever touched from the program's event loop.
//   - Key messages are matched against the key map and forwarded to the
//     device as the corresponding key sequence, followed by an immediate
//     refresh message so the echo shows up without waiting for the tick.
//   - View renders each screen row as runs of equal colour using the theme
//     palette, then a status line with help or the last error.
package ui
