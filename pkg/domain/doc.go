/*
Package domain contains the core value types of the statewalk engine:
machine definitions, the compiled state node tree metadata, configurations,
events, transition results and paths.

These types are pure data. The transition algorithm lives in the internal
runtime; graph construction and path search build on top of it. Keeping the
vocabulary here lets adapters (HTTP, stores, CLI) depend on the types without
pulling in the engine.
*/
package domain
