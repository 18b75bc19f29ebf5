package functab

// Default is the table of POSIX, stdio, MPI-IO and HDF5 calls the shims
// intercept. Ids are positional, so entries may only ever be appended.
var Default = MustNew([]Entry{
	// POSIX
	{Name: "open", FilenameArgs: []int{0}},
	{Name: "open64", FilenameArgs: []int{0}},
	{Name: "creat", FilenameArgs: []int{0}},
	{Name: "creat64", FilenameArgs: []int{0}},
	{Name: "close"},
	{Name: "read"},
	{Name: "write"},
	{Name: "pread"},
	{Name: "pread64"},
	{Name: "pwrite"},
	{Name: "pwrite64"},
	{Name: "readv"},
	{Name: "writev"},
	{Name: "lseek"},
	{Name: "lseek64"},
	{Name: "fsync"},
	{Name: "fdatasync"},
	{Name: "mmap"},
	{Name: "mmap64"},
	{Name: "msync"},
	{Name: "dup"},
	{Name: "dup2"},
	{Name: "stat", FilenameArgs: []int{0}},
	{Name: "stat64", FilenameArgs: []int{0}},
	{Name: "lstat", FilenameArgs: []int{0}},
	{Name: "lstat64", FilenameArgs: []int{0}},
	{Name: "fstat"},
	{Name: "access", FilenameArgs: []int{0}},
	{Name: "unlink", FilenameArgs: []int{0}},
	{Name: "mkdir", FilenameArgs: []int{0}},
	{Name: "rmdir", FilenameArgs: []int{0}},
	{Name: "rename", FilenameArgs: []int{0, 1}},
	{Name: "truncate", FilenameArgs: []int{0}},
	{Name: "ftruncate"},
	{Name: "chmod", FilenameArgs: []int{0}},
	{Name: "chdir", FilenameArgs: []int{0}},
	{Name: "opendir", FilenameArgs: []int{0}},
	{Name: "closedir"},
	{Name: "readdir"},
	{Name: "link", FilenameArgs: []int{0, 1}},
	{Name: "symlink", FilenameArgs: []int{0, 1}},
	// stdio
	{Name: "fopen", FilenameArgs: []int{0}},
	{Name: "fopen64", FilenameArgs: []int{0}},
	{Name: "fclose"},
	{Name: "fread"},
	{Name: "fwrite"},
	{Name: "fseek"},
	{Name: "ftell"},
	{Name: "fflush"},
	// MPI
	{Name: "MPI_File_open", FilenameArgs: []int{1}},
	{Name: "MPI_File_close"},
	{Name: "MPI_File_sync"},
	{Name: "MPI_File_set_size"},
	{Name: "MPI_File_set_view"},
	{Name: "MPI_File_seek"},
	{Name: "MPI_File_read"},
	{Name: "MPI_File_read_at"},
	{Name: "MPI_File_read_all"},
	{Name: "MPI_File_read_at_all"},
	{Name: "MPI_File_write"},
	{Name: "MPI_File_write_at"},
	{Name: "MPI_File_write_all"},
	{Name: "MPI_File_write_at_all"},
	{Name: "MPI_File_delete", FilenameArgs: []int{0}},
	{Name: "MPI_Barrier"},
	{Name: "MPI_Bcast"},
	{Name: "MPI_Reduce"},
	{Name: "MPI_Allreduce"},
	{Name: "MPI_Gather"},
	{Name: "MPI_Scatter"},
	{Name: "MPI_Send"},
	{Name: "MPI_Recv"},
	// HDF5
	{Name: "H5Fcreate", FilenameArgs: []int{0}},
	{Name: "H5Fopen", FilenameArgs: []int{0}},
	{Name: "H5Fclose"},
	{Name: "H5Fflush"},
	{Name: "H5Gcreate1"},
	{Name: "H5Gopen1"},
	{Name: "H5Gclose"},
	{Name: "H5Dcreate1"},
	{Name: "H5Dopen1"},
	{Name: "H5Dread"},
	{Name: "H5Dwrite"},
	{Name: "H5Dclose"},
	{Name: "H5Screate_simple"},
	{Name: "H5Sclose"},
	{Name: "H5Pcreate"},
	{Name: "H5Pclose"},
	{Name: "H5Acreate1"},
	{Name: "H5Aread"},
	{Name: "H5Awrite"},
	{Name: "H5Aclose"},
})
