// Package meshio reads and writes meshes in the formats meshforce exchanges
// with other tools.
//
// # Wavefront OBJ
//
// [ReadOBJ] parses "v" and "f" records into a [mesh.Mesh] and checks the
// Euler characteristic of the result, failing with a DEGENERATE_TOPOLOGY
// error that reports the vertex, edge and face counts and the computed genus
// when the input is not a closed genus-0 surface. [DecodeOBJ] parses without
// that check, for diagnostics.
//
// Face tokens may carry texture and normal references ("1/2/3", "1//3");
// only the position index is kept. Normals, texture coordinates, groups,
// objects, smoothing and material records are skipped. Only triangles are
// accepted.
//
// [WriteOBJ] emits "v" records followed by "f" records with 1-based indices.
//
// # STL and JSON
//
// [WriteSTL] writes binary STL with per-facet normals computed from the face
// winding. [Document] is the JSON form used for cache payloads and API
// responses.
package meshio
