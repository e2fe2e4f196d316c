// Package ownership is the structural layer of the model. It takes a
// model.Scenario and instantiates the runtime shape of the program: bindings
// in declaration order, the tree of owned values under each of them, the
// reference relations between them, and the outlives-constraint graph those
// references imply.
//
// Build rejects programs that are malformed before any destruction-order
// reasoning applies: unknown types or bindings, constructor arguments that do
// not match the field layout, moves out of already-moved bindings, double
// drops, and constraint cycles.
package ownership
