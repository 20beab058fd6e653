/*
Package awsec2 is the AWS side of the adapter: a thin facade over the EC2
API, the pure native-to-canonical resource mapper, and the pure error
classifier.

The facade owns the backend session (credentials plus region) and exposes one
method per EC2 operation the dispatcher needs. It performs no mapping or
classification itself; translation stays separate from I/O. Sessions are
constructed lazily per region by Sessions and cached for the process
lifetime. They are immutable after construction and shared read-only, so no
locking is needed beyond the cache map itself.

The mapper and classifier are total: unrecognized native fields map to the
canonical Unknown values, and unmapped error codes fall through to
UnknownBackendError, never to a panic or a secondary failure.
*/
package awsec2
