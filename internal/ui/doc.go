// Package ui contains the Bubble Tea program that shows a directory tree as a
// cascade of popup menus. Model owns every level, the open/close state
// machine and the timers; everything else reports to it.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Pointer input is routed to the topmost level under the pointer
//     (mouse.go). The popup.View turns it into row enter/leave/press events
//     and calls back into popupEvents (observers.go).
//   - Keys go to the row filter first (input.go) and then to the
//     keyboard.Navigator, which calls back into keyEvents.
//
// Loading:
//   - Each container row owns a loader.Slot. Hovering or selecting the row
//     starts it; leaving the row cancels it while it runs. Scans run in
//     tea.Cmd goroutines and come back as loader.DoneMsg (loading.go).
//   - A delivered scan opens a level one deeper than its trigger, closing
//     whatever was open at that depth or below first (levels.go), so the open
//     levels always form an unbroken chain from the root.
//   - Leaving a row whose child is already open only arms a delayed close;
//     the child closes once another row of the same level has taken over.
//
// Open/close state:
//   - state.Tree moves Default -> Opening on the hotkey or a tray click,
//     back to Default once the root has faded in, and through Closing when
//     everything fades out (tree.go). A tray click right after a focus loss
//     closed the menus is swallowed.
//   - Focus changes fade the cascade to half opacity or out entirely; a
//     debounced leave timer and a focus poll repeat that check (timers.go).
//
// Tests drive the model through Harness, which runs commands inline and keeps
// timers on a virtual clock.
package ui
