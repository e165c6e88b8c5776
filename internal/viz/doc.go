// Package viz renders the simulators in the terminal.
//
// Drawing goes to a Braille [Canvas]: every character cell holds 2x4 dots,
// so a cols x rows canvas has cols*2 x rows*4 addressable pixels. A
// [Viewport] maps world coordinates onto those pixels and maps mouse cells
// back into the world.
//
// Two Bubble Tea programs are provided:
//
//   - [LabModel]: the spring network lab, driven by the mouse
//   - [WaterModel]: the water surface with thrown rocks
//
// # Lab controls
//
//	Left drag      - Move a node
//	Left x2        - Delete a node
//	Right click    - Create a node
//	Right drag     - Link two nodes
//	Wheel          - Change the selected node's mass
//	Up/Down        - Stiffness
//	Space          - String mode
//	P              - Pause
//	Right          - Single step while paused
//	R              - Reset
//	T              - Cycle themes
//	Q              - Quit
//
// # Water controls
//
//	Click          - Throw a rock
//	Q/W A/S Z/X    - Tension, dampening, spread down/up
//	R              - Reset
//	Esc            - Quit
package viz
