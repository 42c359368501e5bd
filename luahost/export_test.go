package luahost

// Pinned exposes the size of the refs table to tests.
var Pinned = pinned
